// Package player drives a single omxplayer process: it serializes the
// invocation, launches the process behind a named pipe, waits for its
// control channel, samples playback progress and fires position triggers.
package player

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/omxconductor/omxconductor/filesystem"
	"github.com/omxconductor/omxconductor/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// Result describes an opened session.
type Result struct {
	Resource     string     `json:"resource"`
	Invocation   Invocation `json:"invocation"`
	Playing      bool       `json:"playing"`
	TestModeOnly bool       `json:"test_mode_only,omitempty"`
}

// Player orchestrates one playback session at a time.
type Player struct {
	target   string
	settings Settings

	bridge       Bridge
	launcher     Launcher
	clock        Clock
	pollInterval time.Duration
	pollAttempts int
	pipeDir      string
	logger       *logrus.Entry

	mu       sync.Mutex
	state    State
	proc     Process
	sampler  *sampler
	triggers []*Trigger
	subs     []subscription
	nextSub  int
	last     mo.Option[Progress]
}

// Option customizes a Player.
type Option func(*Player)

// WithBridge replaces the D-Bus control channel.
func WithBridge(b Bridge) Option {
	return func(p *Player) { p.bridge = b }
}

// WithLauncher replaces the process launcher.
func WithLauncher(l Launcher) Option {
	return func(p *Player) { p.launcher = l }
}

// WithClock replaces the timer source.
func WithClock(c Clock) Option {
	return func(p *Player) { p.clock = c }
}

// WithPollInterval sets the delay between readiness checks.
func WithPollInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.pollInterval = d
		}
	}
}

// WithPollAttempts bounds the readiness poll.
func WithPollAttempts(n int) Option {
	return func(p *Player) {
		if n > 0 {
			p.pollAttempts = n
		}
	}
}

// WithPipeDir places the session's named pipe in dir.
func WithPipeDir(dir string) Option {
	return func(p *Player) { p.pipeDir = dir }
}

// New creates a player for target, a local path or a stream URL.
func New(target string, settings Settings, opts ...Option) *Player {
	p := &Player{
		target:       target,
		settings:     settings.Resolve(),
		launcher:     NewExecLauncher(),
		clock:        realClock{},
		pollInterval: DefaultPollInterval,
		pollAttempts: DefaultPollAttempts,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.bridge == nil {
		p.bridge = NewDBusBridge(DefaultBusAddressFile(), p.pollInterval)
	}
	p.logger = log.Session(p.settings.DBusName)

	return p
}

// Settings returns the resolved session settings.
func (p *Player) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// EnableTestMode makes Open compute the invocation without executing it.
func (p *Player) EnableTestMode() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.TestMode = true
}

// State returns the current session state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastProgress returns the most recent sample, if any.
func (p *Player) LastProgress() mo.Option[Progress] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Subscribe registers fn for every event and returns a function removing it.
func (p *Player) Subscribe(fn Handler) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextSub++
	id := p.nextSub
	p.subs = append(p.subs, subscription{id: id, fn: fn})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.subs = lo.Reject(p.subs, func(s subscription, _ int) bool { return s.id == id })
	}
}

func (p *Player) emit(e Event) {
	p.mu.Lock()
	subs := append([]subscription(nil), p.subs...)
	p.mu.Unlock()

	for _, s := range subs {
		s.fn(e)
	}
}

func (p *Player) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// RegisterPositionTrigger calls fn each time sampled playback crosses at
// going forward. Triggers are evaluated only while sampling is active.
func (p *Player) RegisterPositionTrigger(at time.Duration, fn TriggerFunc) *Trigger {
	t := &Trigger{At: at, fn: fn}

	p.mu.Lock()
	p.triggers = append(p.triggers, t)
	p.mu.Unlock()

	return t
}

// Open resolves the target, launches the player and waits for its control
// channel. With waitOnBlack the session is paused as soon as it is
// controllable.
func (p *Player) Open(ctx context.Context, waitOnBlack bool) (*Result, error) {
	p.mu.Lock()
	if !p.state.CanOpen() {
		state := p.state
		p.mu.Unlock()
		return nil, fmt.Errorf("open: session is %s", state)
	}
	if p.proc != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("open: %w", ErrStillRunning)
	}
	settings := p.settings
	p.state = StateOpening
	p.last = mo.None[Progress]()
	p.mu.Unlock()

	if err := settings.Validate(); err != nil {
		p.setState(StateError)
		return nil, err
	}

	resource, err := resolveResource(p.target)
	if err != nil {
		p.setState(StateError)
		return nil, err
	}

	inv := BuildInvocation(resource, settings, p.pipeDir)
	result := &Result{
		Resource:   resource,
		Invocation: inv,
		Playing:    !waitOnBlack,
	}

	if settings.TestMode {
		p.logger.Infof("test mode, not executing: %s", inv)
		p.setState(StateIdle)
		result.TestModeOnly = true
		return result, nil
	}

	proc, err := p.launcher.Launch(inv)
	if err != nil {
		p.setState(StateError)
		return nil, err
	}
	p.logger.Infof("launched: %s", inv)

	exited := make(chan struct{})
	p.mu.Lock()
	p.proc = proc
	p.state = StateAwaitingControl
	p.mu.Unlock()

	go p.reap(proc, exited)
	p.emit(OpenEvent{Resource: resource, Invocation: inv})

	readiness, err := p.awaitControl(ctx, exited)
	if err != nil {
		p.mu.Lock()
		if p.proc == proc && p.state == StateAwaitingControl {
			p.state = StateError
		}
		p.mu.Unlock()

		p.logger.Warnf("control channel: %v", err)
		p.emit(ErrorEvent{Err: err})
		return nil, err
	}

	p.mu.Lock()
	if p.proc != proc || p.state != StateAwaitingControl {
		p.mu.Unlock()
		return nil, ErrProcessExited
	}
	p.state = StateReady
	s := newSampler(p.clock, time.Duration(settings.ProgressInterval)*time.Millisecond)
	p.sampler = s
	p.mu.Unlock()

	p.emit(ReadyEvent{Readiness: readiness})
	go p.runSampler(s)

	if waitOnBlack {
		if err := p.Pause(ctx); err != nil {
			return nil, fmt.Errorf("hold on first frame: %w", err)
		}
		return result, nil
	}

	p.mu.Lock()
	if p.state == StateReady {
		if readiness.Status == StatusPaused {
			p.state = StatePaused
		} else {
			p.state = StatePlaying
		}
	}
	p.mu.Unlock()

	return result, nil
}

// reap waits for the process and tears the session down. It emits closed,
// carrying what the process printed, unless proc no longer owns the session.
func (p *Player) reap(proc Process, exited chan struct{}) {
	exit := <-proc.Done()
	close(exited)

	p.mu.Lock()
	current := p.proc == proc
	prev := p.state
	s := p.sampler
	if current {
		p.proc = nil
		p.sampler = nil
		p.state = StateClosed
	}
	p.mu.Unlock()

	if !current {
		return
	}
	if s != nil {
		s.halt()
	}

	if exit.Err != nil && prev != StateStopped {
		p.logger.Warnf("player exited: %v", exit.Err)
		p.emit(ErrorEvent{Err: fmt.Errorf("%w: %w", ErrProcessExited, exit.Err)})
	} else {
		p.logger.Infof("player exited")
	}

	p.emit(ClosedEvent{Exit: exit})
}

// controllable returns the bus name when the control channel is up.
func (p *Player) controllable(op string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.Controllable() {
		return "", fmt.Errorf("%s while %s: %w", op, p.state, ErrNotReady)
	}
	return p.settings.DBusName, nil
}

// IsPlaying asks the player whether it is currently playing.
func (p *Player) IsPlaying(ctx context.Context) (bool, error) {
	name, err := p.controllable("status")
	if err != nil {
		return false, err
	}

	status, err := p.bridge.Status(ctx, name)
	if err != nil {
		return false, controlErr("status", err)
	}
	return status == StatusPlaying, nil
}

// SeekAbsolute moves playback to pos. Triggers behind the new position
// re-arm on the next sample.
func (p *Player) SeekAbsolute(ctx context.Context, pos time.Duration) error {
	name, err := p.controllable("seek")
	if err != nil {
		return err
	}
	return controlErr("seek", p.bridge.SetPosition(ctx, name, pos))
}

// Pause pauses playback and emits paused.
func (p *Player) Pause(ctx context.Context) error {
	name, err := p.controllable("pause")
	if err != nil {
		return err
	}

	if err := p.bridge.Pause(ctx, name); err != nil {
		return controlErr("pause", err)
	}

	p.transition(StatePaused)
	p.emit(PausedEvent{})
	return nil
}

// Resume resumes playback and emits resumed.
func (p *Player) Resume(ctx context.Context) error {
	name, err := p.controllable("resume")
	if err != nil {
		return err
	}

	if err := p.bridge.Resume(ctx, name); err != nil {
		return controlErr("resume", err)
	}

	p.transition(StatePlaying)
	p.emit(ResumedEvent{})
	return nil
}

// Stop disables sampling, stops playback and emits stopped. Sampling stays
// disabled even if the stop call fails.
func (p *Player) Stop(ctx context.Context) error {
	name, err := p.controllable("stop")
	if err != nil {
		return err
	}

	p.mu.Lock()
	s := p.sampler
	p.mu.Unlock()
	if s != nil {
		s.halt()
	}

	if err := p.bridge.Stop(ctx, name); err != nil {
		return controlErr("stop", err)
	}

	p.transition(StateStopped)
	p.emit(StoppedEvent{})
	return nil
}

// transition moves a controllable session to s. Sessions that were closed
// in the meantime keep their terminal state.
func (p *Player) transition(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Controllable() {
		p.state = s
	}
}

// Close stops sampling and kills the process if it is still running.
func (p *Player) Close() error {
	p.mu.Lock()
	s, proc := p.sampler, p.proc
	p.mu.Unlock()

	if s != nil {
		s.halt()
	}
	if proc != nil {
		return proc.Kill()
	}
	return nil
}

// resolveResource returns the stream URL unchanged, or the absolute path of
// a local resource after checking that it can be played.
func resolveResource(target string) (string, error) {
	t := strings.TrimSpace(target)
	if t == "" {
		return "", fmt.Errorf("%w: empty target", ErrResourceNotFound)
	}

	if strings.ContainsAny(t, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in target")
	}

	// A leading dash would be read as a flag by the player.
	if strings.HasPrefix(t, "-") {
		return "", fmt.Errorf("target must not start with '-'")
	}

	if u, err := url.Parse(t); err == nil && len(u.Scheme) > 1 {
		if !strings.EqualFold(u.Scheme, "file") {
			return t, nil
		}
		t = u.Path
	}

	abs, err := filepath.Abs(t)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrResourceNotFound, t, err)
	}

	if err := filesystem.Playable(abs); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrResourceNotFound, abs, err)
	}

	return abs, nil
}
