package lib

import "blobslide/internal/log"

// Driver is the subset of Roomba the mirror needs
type Driver interface {
	Drive(velocity int16, radius int16) error
	Stop() error
}

// Mirror forwards each frame's action to a Driver. Commands are only sent
// when the action changes.
type Mirror struct {
	driver Driver
	speed  int16
	last   Action
	sent   bool
}

// NewMirror creates a mirror that spins at speed for left and right
func NewMirror(driver Driver, speed int16) *Mirror {
	return &Mirror{driver: driver, speed: speed}
}

// Follow sends the drive command for the action if it differs from the last one
func (m *Mirror) Follow(action Action) {
	if m.sent && action == m.last {
		return
	}

	var err error
	switch action {
	case ActionMoveLeft:
		err = m.driver.Drive(m.speed, SpinCounterCW)
	case ActionMoveRight:
		err = m.driver.Drive(m.speed, SpinCW)
	default:
		err = m.driver.Stop()
	}

	if err != nil {
		// Leave sent unset so the next frame retries.
		log.Warn("error controlling mirror", "action", action, "error", err)
		m.sent = false
		return
	}

	log.Info("mirror", "action", action)
	m.last = action
	m.sent = true
}

// Halt stops the driver regardless of the last action
func (m *Mirror) Halt() error {
	m.sent = false
	return m.driver.Stop()
}
