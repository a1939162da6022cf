package player

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errNotListening = errors.New("org.freedesktop.DBus.Error.ServiceUnknown")

// fakeBridge answers control calls from scripted data.
type fakeBridge struct {
	mu sync.Mutex

	statusFailures int // Status fails this many times before answering
	status         PlayStatus

	positions []time.Duration // served one per Position read, last value repeats
	duration  time.Duration

	statusCalls   int
	floatCalls    int
	positionCalls int
	calls         []string
	failOps       map[string]error
	seekedTo      time.Duration

	// set by blockPosition
	entered chan struct{}
	release chan struct{}
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{status: StatusPlaying, failOps: map[string]error{}}
}

func (b *fakeBridge) Status(_ context.Context, _ string) (PlayStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.statusCalls++
	if b.statusCalls <= b.statusFailures {
		return "", errNotListening
	}
	return b.status, nil
}

// blockPosition makes the next Position read signal entered and wait for
// release before answering.
func (b *fakeBridge) blockPosition() (entered <-chan struct{}, release chan<- struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entered = make(chan struct{}, 1)
	b.release = make(chan struct{})
	return b.entered, b.release
}

func (b *fakeBridge) Float(_ context.Context, _ string, property string) (float64, error) {
	b.mu.Lock()
	entered, release := b.entered, b.release
	if property == PropertyPosition {
		b.entered, b.release = nil, nil
	}
	b.mu.Unlock()

	if property == PropertyPosition && release != nil {
		entered <- struct{}{}
		<-release
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.floatCalls++
	if err := b.failOps[property]; err != nil {
		return 0, err
	}

	switch property {
	case PropertyPosition:
		if len(b.positions) == 0 {
			return 0, nil
		}
		i := b.positionCalls
		if i >= len(b.positions) {
			i = len(b.positions) - 1
		}
		b.positionCalls++
		return float64(busUnits(b.positions[i])), nil
	case PropertyDuration:
		return float64(busUnits(b.duration)), nil
	default:
		return 0, errors.New("unknown property " + property)
	}
}

func (b *fakeBridge) record(op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, op)
	return b.failOps[op]
}

func (b *fakeBridge) SetPosition(_ context.Context, _ string, pos time.Duration) error {
	b.mu.Lock()
	b.seekedTo = pos
	b.mu.Unlock()
	return b.record("seek")
}

func (b *fakeBridge) Pause(context.Context, string) error  { return b.record("pause") }
func (b *fakeBridge) Stop(context.Context, string) error   { return b.record("stop") }
func (b *fakeBridge) Resume(context.Context, string) error { return b.record("resume") }

func (b *fakeBridge) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBridge) StatusCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusCalls
}

func (b *fakeBridge) FloatCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.floatCalls
}

func (b *fakeBridge) setFailure(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failOps, op)
		return
	}
	b.failOps[op] = err
}

func (b *fakeBridge) PositionCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.positionCalls
}

// fakeProcess exits when the test says so.
type fakeProcess struct {
	done   chan Exit
	once   sync.Once
	killed bool
}

func (p *fakeProcess) Done() <-chan Exit { return p.done }

func (p *fakeProcess) Kill() error {
	p.killed = true
	p.exit(Exit{Err: errors.New("signal: killed")})
	return nil
}

func (p *fakeProcess) exit(e Exit) {
	p.once.Do(func() {
		p.done <- e
		close(p.done)
	})
}

// fakeLauncher records launches instead of spawning anything.
type fakeLauncher struct {
	mu        sync.Mutex
	launched  []Invocation
	processes []*fakeProcess
	err       error
}

func (l *fakeLauncher) Launch(inv Invocation) (Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return nil, l.err
	}

	p := &fakeProcess{done: make(chan Exit, 1)}
	l.launched = append(l.launched, inv)
	l.processes = append(l.processes, p)
	return p, nil
}

func (l *fakeLauncher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.launched)
}

func (l *fakeLauncher) last() *fakeProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.processes[len(l.processes)-1]
}

// manualClock fires After immediately and hands out tickers driven by tick.
type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (c *manualClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func (c *manualClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

// tick delivers one tick to the most recent ticker, even a stopped one,
// which models a tick that was already due when the ticker was stopped.
func (c *manualClock) tick() {
	c.mu.Lock()
	t := c.tickers[len(c.tickers)-1]
	c.mu.Unlock()
	t.ch <- time.Time{}
}

type manualTicker struct {
	ch      chan time.Time
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped = true }

// recorder collects events and forwards progress to a channel.
type recorder struct {
	mu       sync.Mutex
	events   []Event
	progress chan Progress
	closed   chan ClosedEvent
}

func newRecorder(p *Player) *recorder {
	r := &recorder{
		progress: make(chan Progress, 16),
		closed:   make(chan ClosedEvent, 1),
	}
	p.Subscribe(func(e Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()

		switch ev := e.(type) {
		case ProgressEvent:
			r.progress <- ev.Progress
		case ClosedEvent:
			r.closed <- ev
		}
	})
	return r
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind()
	}
	return kinds
}

func (r *recorder) has(kind EventKind) bool {
	for _, k := range r.kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// waitUntil polls cond until it holds or timeout passes.
func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
