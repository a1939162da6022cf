// Package tui provides a terminal view over a running playback session.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/omxconductor/omxconductor/player"
)

// Controller is the part of a session the view drives.
type Controller interface {
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	SeekAbsolute(ctx context.Context, pos time.Duration) error
	State() player.State
	Subscribe(fn player.Handler) (unsubscribe func())
}

// Options configures the view.
type Options struct {
	// Resource is the title shown above the progress bar.
	Resource string
	// SeekStep is how far left and right move playback.
	SeekStep time.Duration
}

// Run shows the view until the user quits or the session closes.
func Run(ctx context.Context, ctl Controller, options *Options) error {
	bubble := newBubble(ctx, ctl, options)
	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := ctl.Subscribe(func(e player.Event) {
		program.Send(eventMsg{event: e})
	})
	defer unsubscribe()

	_, err := program.Run()
	return err
}
