package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/omxconductor/omxconductor/color"
	"github.com/omxconductor/omxconductor/player"
	"github.com/omxconductor/omxconductor/style"
	"github.com/omxconductor/omxconductor/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *bubble) View() string {
	lines := []string{
		style.Title("Now Playing"),
		"",
		truncate.StringWithTail(style.Fg(color.Purple)(b.options.Resource), uint(max(b.width, 1)), "…"),
		"",
		b.viewState() + "  " + style.Faint(formatClock(b.progress.Position)+" / "+formatClock(b.progress.Duration)),
		b.progressC.ViewAs(util.Clamp(b.progress.Ratio, 0, 1)),
	}

	if b.lastErr != nil {
		lines = append(lines, "", wrap.String(style.Fg(color.Red)(b.lastErr.Error()), max(b.width, 1)))
	}

	if b.output != "" {
		lines = append(lines, "", style.Faint(strings.TrimSpace(b.output)))
	}

	return b.renderLines(lines)
}

func (b *bubble) viewState() string {
	switch b.state {
	case player.StatePlaying:
		return style.Tag(color.Black, color.Green)(b.state.String())
	case player.StatePaused:
		return style.Tag(color.Black, color.Yellow)(b.state.String())
	case player.StateError, player.StateClosed:
		return style.Tag(color.White, color.Red)(b.state.String())
	default:
		return style.Tag(color.Black, color.Gray)(b.state.String())
	}
}

func (b *bubble) renderLines(lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if b.height > h+1 {
		l += strings.Repeat("\n", b.height-h-1)
	}
	l += "\n" + b.helpC.View(b.keymap)

	return paddingStyle.Render(l)
}

// formatClock renders d as m:ss, or h:mm:ss past an hour.
func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
