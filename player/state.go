package player

// State is the lifecycle position of a playback session.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateAwaitingControl
	StateReady
	StatePlaying
	StatePaused
	StateStopped
	StateClosed
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateOpening:
		return "Opening"
	case StateAwaitingControl:
		return "AwaitingControl"
	case StateReady:
		return "Ready"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateStopped:
		return "Stopped"
	case StateClosed:
		return "Closed"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Controllable reports whether the control channel is established.
func (s State) Controllable() bool {
	return s == StateReady || s == StatePlaying || s == StatePaused
}

// CanOpen reports whether Open may start a new session from this state.
func (s State) CanOpen() bool {
	switch s {
	case StateIdle, StateStopped, StateClosed, StateError:
		return true
	default:
		return false
	}
}
