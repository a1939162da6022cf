package player

import "time"

// EventKind names a lifecycle notification.
type EventKind string

const (
	KindOpen     EventKind = "open"
	KindReady    EventKind = "ready"
	KindProgress EventKind = "progress"
	KindPaused   EventKind = "paused"
	KindResumed  EventKind = "resumed"
	KindStopped  EventKind = "stopped"
	KindClosed   EventKind = "closed"
	KindError    EventKind = "error"
)

// Event is a notification emitted by a Player. The concrete type determines
// the payload.
type Event interface {
	Kind() EventKind
}

// OpenEvent is emitted once the process has been launched.
type OpenEvent struct {
	Resource   string     `json:"resource"`
	Invocation Invocation `json:"invocation"`
}

// Readiness is the outcome of the readiness poll.
type Readiness struct {
	Status       PlayStatus `json:"status"`
	AttemptsLeft int        `json:"attempts_left"`
}

// ReadyEvent is emitted when the control channel answers.
type ReadyEvent struct {
	Readiness
}

// Progress is one playback sample.
type Progress struct {
	Position time.Duration `json:"position"`
	Duration time.Duration `json:"duration"`
	// Ratio is Position/Duration, zero while the duration is unknown.
	Ratio float64 `json:"ratio"`
}

// ProgressEvent carries a sample taken by the sampling loop.
type ProgressEvent struct {
	Progress
}

type PausedEvent struct{}

type ResumedEvent struct{}

type StoppedEvent struct{}

// ClosedEvent is emitted when the process has exited, whatever the reason.
type ClosedEvent struct {
	Exit
}

// ErrorEvent reports a failure outside of a direct call.
type ErrorEvent struct {
	Err error `json:"-"`
}

func (OpenEvent) Kind() EventKind     { return KindOpen }
func (ReadyEvent) Kind() EventKind    { return KindReady }
func (ProgressEvent) Kind() EventKind { return KindProgress }
func (PausedEvent) Kind() EventKind   { return KindPaused }
func (ResumedEvent) Kind() EventKind  { return KindResumed }
func (StoppedEvent) Kind() EventKind  { return KindStopped }
func (ClosedEvent) Kind() EventKind   { return KindClosed }
func (ErrorEvent) Kind() EventKind    { return KindError }

// Handler receives events synchronously on the goroutine that emitted them.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}
