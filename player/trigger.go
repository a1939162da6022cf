package player

import (
	"sync/atomic"
	"time"
)

// TriggerFunc is called with the sampled position that crossed the target.
type TriggerFunc func(position time.Duration)

// Trigger fires its callback once per forward crossing of At.
type Trigger struct {
	At    time.Duration
	fn    TriggerFunc
	fired atomic.Bool
}

// Fired reports whether the trigger is waiting to be re-armed. It is safe to
// call while the session is sampling.
func (t *Trigger) Fired() bool {
	return t.fired.Load()
}

// evaluate applies one sample and reports whether the callback is due.
// Falling back below the target re-arms a fired trigger.
func (t *Trigger) evaluate(pos time.Duration) bool {
	fired := t.fired.Load()
	switch {
	case pos >= t.At && !fired:
		t.fired.Store(true)
		return true
	case pos < t.At && fired:
		t.fired.Store(false)
	}
	return false
}
