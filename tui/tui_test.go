package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/omxconductor/omxconductor/player"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeController struct {
	mu    sync.Mutex
	calls []string
	seek  time.Duration
	err   error
	state player.State
}

func (c *fakeController) record(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, op)
	return c.err
}

func (c *fakeController) Pause(context.Context) error  { return c.record("pause") }
func (c *fakeController) Resume(context.Context) error { return c.record("resume") }
func (c *fakeController) Stop(context.Context) error   { return c.record("stop") }

func (c *fakeController) SeekAbsolute(_ context.Context, pos time.Duration) error {
	c.mu.Lock()
	c.seek = pos
	c.mu.Unlock()
	return c.record("seek")
}

func (c *fakeController) State() player.State { return c.state }

func (c *fakeController) Subscribe(player.Handler) func() { return func() {} }

func keyPress(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// run feeds msg to b and executes the resulting command once.
func run(b *bubble, msg tea.Msg) tea.Msg {
	_, cmd := b.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestBubble(t *testing.T) {
	Convey("Playback view", t, func() {
		ctl := &fakeController{state: player.StatePlaying}
		b := newBubble(context.Background(), ctl, &Options{Resource: "/media/tenseconds.mp4"})
		b.resize(80, 24)

		Convey("Space pauses a playing session", func() {
			msg := run(b, keyPress(" "))
			So(msg, ShouldResemble, controlMsg{op: "pause"})
			So(ctl.calls, ShouldResemble, []string{"pause"})
		})

		Convey("Space resumes a paused session", func() {
			b.Update(eventMsg{event: player.PausedEvent{}})
			run(b, keyPress(" "))
			So(ctl.calls, ShouldResemble, []string{"resume"})
		})

		Convey("s stops", func() {
			run(b, keyPress("s"))
			So(ctl.calls, ShouldResemble, []string{"stop"})
		})

		Convey("Arrows seek around the last sample", func() {
			b.Update(eventMsg{event: player.ProgressEvent{Progress: player.Progress{
				Position: 4 * time.Second,
				Duration: 20 * time.Second,
				Ratio:    0.2,
			}}})

			run(b, keyPress("right"))
			So(ctl.seek, ShouldEqual, 14*time.Second)

			run(b, keyPress("left"))
			So(ctl.seek, ShouldEqual, time.Duration(0))
		})

		Convey("Forward seeks stop at the duration", func() {
			b.progress = player.Progress{Position: 15 * time.Second, Duration: 20 * time.Second}
			So(b.seekTarget(10*time.Second), ShouldEqual, 20*time.Second)
		})

		Convey("Control failures are shown", func() {
			ctl.err = errors.New("control pause: no reply")
			msg := run(b, keyPress(" "))
			b.Update(msg)
			So(b.lastErr, ShouldNotBeNil)
			So(b.View(), ShouldContainSubstring, "no reply")
		})

		Convey("Closing quits", func() {
			_, cmd := b.Update(eventMsg{event: player.ClosedEvent{Exit: player.Exit{Stderr: "have a nice day ;)"}}})
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldResemble, tea.Quit())
			So(b.state, ShouldEqual, player.StateClosed)
			So(b.View(), ShouldContainSubstring, "have a nice day")

			Convey("and further controls are ignored", func() {
				_, cmd := b.Update(keyPress("s"))
				So(cmd, ShouldBeNil)
				So(ctl.calls, ShouldBeEmpty)
			})
		})

		Convey("Force quit skips stop", func() {
			_, cmd := b.Update(keyPress("ctrl+c"))
			So(cmd(), ShouldResemble, tea.Quit())
			So(ctl.calls, ShouldBeEmpty)
		})

		Convey("The view shows title and state", func() {
			view := b.View()
			So(view, ShouldContainSubstring, "tenseconds.mp4")
			So(view, ShouldContainSubstring, "Playing")
		})
	})

	Convey("formatClock", t, func() {
		So(formatClock(0), ShouldEqual, "0:00")
		So(formatClock(65*time.Second), ShouldEqual, "1:05")
		So(formatClock(time.Hour+2*time.Minute+3*time.Second), ShouldEqual, "1:02:03")
	})
}
