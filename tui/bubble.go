package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/omxconductor/omxconductor/player"
	"github.com/omxconductor/omxconductor/util"
)

const defaultSeekStep = 10 * time.Second

type bubble struct {
	ctx     context.Context
	ctl     Controller
	options Options

	keymap    *keymap
	progressC progress.Model
	helpC     help.Model

	state    player.State
	progress player.Progress
	lastErr  error
	closed   bool
	output   string

	width, height int
}

func newBubble(ctx context.Context, ctl Controller, options *Options) *bubble {
	b := &bubble{
		ctx:       ctx,
		ctl:       ctl,
		keymap:    newKeymap(),
		progressC: progress.New(progress.WithDefaultGradient()),
		helpC:     help.New(),
		state:     ctl.State(),
	}

	if options != nil {
		b.options = *options
	}
	if b.options.SeekStep <= 0 {
		b.options.SeekStep = defaultSeekStep
	}

	return b
}

func (b *bubble) resize(width, height int) {
	styledWidth := width - paddingStyle.GetHorizontalPadding()
	styledHeight := height - paddingStyle.GetVerticalPadding()

	b.width = max(styledWidth, 0)
	b.height = max(styledHeight, 0)
	b.progressC.Width = b.width
	b.helpC.Width = b.width
}

// seekTarget moves the last sampled position by delta, kept inside the
// known duration.
func (b *bubble) seekTarget(delta time.Duration) time.Duration {
	pos := b.progress.Position + delta
	if d := b.progress.Duration; d > 0 {
		return util.Clamp(pos, 0, d)
	}
	return max(pos, 0)
}
