package lib

import "image"

// Sprite movement limits
const (
	SpriteStep = 10
	SpriteMinX = 10
	SpriteMaxX = 800
)

// Sprite is the on-screen rectangle driven by the detected blob
type Sprite struct {
	X, Y int
	W, H int
}

// NewSprite returns the sprite at its starting position
func NewSprite() Sprite {
	return Sprite{X: 500, Y: 500, W: 100, H: 100}
}

// Apply moves the sprite one step for the given action, keeping X in
// [SpriteMinX, SpriteMaxX].
func (s *Sprite) Apply(a Action) {
	switch a {
	case ActionMoveLeft:
		s.X = Clamp(s.X-SpriteStep, SpriteMinX, SpriteMaxX)
	case ActionMoveRight:
		s.X = Clamp(s.X+SpriteStep, SpriteMinX, SpriteMaxX)
	}
}

// Rect returns the sprite's bounds
func (s Sprite) Rect() image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+s.W, s.Y+s.H)
}

// Clamp limits value to [low, high]
func Clamp(value, low, high int) int {
	if value < low {
		return low
	} else if value > high {
		return high
	}
	return value
}
