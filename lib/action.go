package lib

// Horizontal thresholds, in camera pixels, for turning a centroid into a move.
// Centroids between the two fall in a dead zone.
const (
	MoveRightBelowX = 1000
	MoveLeftAboveX  = 1200
)

// Action is the per-frame motion decision
type Action int

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
)

func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "LEFT"
	case ActionMoveRight:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// Decide maps the largest blob's centroid x to an action.
// x == 0 means no blob was found.
func Decide(centroidX int) Action {
	switch {
	case centroidX == 0:
		return ActionNone
	case centroidX < MoveRightBelowX:
		return ActionMoveRight
	case centroidX > MoveLeftAboveX:
		return ActionMoveLeft
	default:
		return ActionNone
	}
}
