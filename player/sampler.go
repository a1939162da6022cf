package player

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/mo"
)

// sampler is one run of the sampling loop. Halting is one-way.
type sampler struct {
	ticker   Ticker
	stop     chan struct{}
	done     chan struct{}
	disabled atomic.Bool
	once     sync.Once
}

func newSampler(clock Clock, interval time.Duration) *sampler {
	return &sampler{
		ticker: clock.NewTicker(interval),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// halt disables the sampler before cancelling its ticker, so a tick that is
// already queued is dropped at the disabled check.
func (s *sampler) halt() {
	s.disabled.Store(true)
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.stop)
	})
}

func (p *Player) runSampler(s *sampler) {
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case <-s.ticker.C():
			if s.disabled.Load() {
				return
			}
			p.sample(context.Background(), s)
		}
	}
}

// sample reads position and duration, evaluates triggers and emits progress.
// Failures only skip the current tick.
func (p *Player) sample(ctx context.Context, s *sampler) {
	name := p.settings.DBusName

	pos, err := p.bridge.Float(ctx, name, PropertyPosition)
	if err != nil {
		p.logger.Debugf("sample position: %v", err)
		return
	}

	dur, err := p.bridge.Float(ctx, name, PropertyDuration)
	if err != nil {
		p.logger.Debugf("sample duration: %v", err)
		return
	}

	if s.disabled.Load() {
		return
	}

	progress := Progress{
		Position: busDuration(pos),
		Duration: busDuration(dur),
	}
	if progress.Duration > 0 {
		progress.Ratio = float64(progress.Position) / float64(progress.Duration)
	}

	p.fireTriggers(progress.Position)

	p.mu.Lock()
	p.last = mo.Some(progress)
	p.mu.Unlock()

	p.emit(ProgressEvent{Progress: progress})
}

// fireTriggers applies a sample to every trigger. Callbacks run outside the
// lock so they may call back into the player.
func (p *Player) fireTriggers(pos time.Duration) {
	var due []TriggerFunc

	p.mu.Lock()
	for _, t := range p.triggers {
		if t.evaluate(pos) {
			due = append(due, t.fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range due {
		fn(pos)
	}
}
