package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/omxconductor/omxconductor/player"
)

// eventMsg carries a player event into the program.
type eventMsg struct {
	event player.Event
}

// controlMsg reports the outcome of a control issued from the keyboard.
type controlMsg struct {
	op  string
	err error
}

func (b *bubble) Init() tea.Cmd {
	return nil
}

func (b *bubble) control(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := b.ctx
	return func() tea.Msg {
		return controlMsg{op: op, err: fn(ctx)}
	}
}

func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case tea.KeyMsg:
		return b.handleKey(msg)
	case eventMsg:
		return b.handleEvent(msg.event)
	case controlMsg:
		b.lastErr = msg.err
		return b, nil
	}

	return b, nil
}

func (b *bubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.forceQuit):
		return b, tea.Quit
	case b.closed:
		if key.Matches(msg, b.keymap.quit) {
			return b, tea.Quit
		}
		return b, nil
	case key.Matches(msg, b.keymap.quit):
		return b, tea.Sequence(b.control("stop", b.ctl.Stop), tea.Quit)
	case key.Matches(msg, b.keymap.toggle):
		if b.state == player.StatePaused {
			return b, b.control("resume", b.ctl.Resume)
		}
		return b, b.control("pause", b.ctl.Pause)
	case key.Matches(msg, b.keymap.stop):
		return b, b.control("stop", b.ctl.Stop)
	case key.Matches(msg, b.keymap.back):
		return b, b.seek(-b.options.SeekStep)
	case key.Matches(msg, b.keymap.forward):
		return b, b.seek(b.options.SeekStep)
	}

	return b, nil
}

func (b *bubble) seek(delta time.Duration) tea.Cmd {
	target := b.seekTarget(delta)
	return b.control("seek", func(ctx context.Context) error {
		return b.ctl.SeekAbsolute(ctx, target)
	})
}

func (b *bubble) handleEvent(e player.Event) (tea.Model, tea.Cmd) {
	switch ev := e.(type) {
	case player.ReadyEvent:
		if ev.Status == player.StatusPaused {
			b.state = player.StatePaused
		} else {
			b.state = player.StatePlaying
		}
	case player.ProgressEvent:
		b.progress = ev.Progress
	case player.PausedEvent:
		b.state = player.StatePaused
	case player.ResumedEvent:
		b.state = player.StatePlaying
	case player.StoppedEvent:
		b.state = player.StateStopped
	case player.ErrorEvent:
		b.lastErr = ev.Err
	case player.ClosedEvent:
		b.state = player.StateClosed
		b.closed = true
		b.output = ev.Stderr
		return b, tea.Quit
	}

	return b, nil
}
