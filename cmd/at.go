package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/omxconductor/omxconductor/log"
)

// actionKind is what a position trigger does once reached.
type actionKind string

const (
	actionPause  actionKind = "pause"
	actionResume actionKind = "resume"
	actionStop   actionKind = "stop"
	actionSeek   actionKind = "seek"
	actionLog    actionKind = "log"
)

// controls is the part of a session a scheduled action can drive.
type controls interface {
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	SeekAbsolute(ctx context.Context, pos time.Duration) error
}

// scheduledAction is a parsed --at value.
type scheduledAction struct {
	at   time.Duration
	kind actionKind
	seek time.Duration
}

func (a scheduledAction) String() string {
	if a.kind == actionSeek {
		return fmt.Sprintf("%dms=%s:%d", a.at.Milliseconds(), a.kind, a.seek.Milliseconds())
	}
	return fmt.Sprintf("%dms=%s", a.at.Milliseconds(), a.kind)
}

func parseMillis(s string) (time.Duration, error) {
	ms, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimSpace(s), "ms"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds %q", s)
	}
	if ms < 0 {
		return 0, fmt.Errorf("negative milliseconds %q", s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// parseAction reads "<ms>=<action>", where action is pause, resume, stop,
// log or seek:<ms>.
func parseAction(raw string) (scheduledAction, error) {
	at, what, ok := strings.Cut(raw, "=")
	if !ok {
		return scheduledAction{}, fmt.Errorf("action %q: expected <ms>=<action>", raw)
	}

	pos, err := parseMillis(at)
	if err != nil {
		return scheduledAction{}, fmt.Errorf("action %q: %w", raw, err)
	}

	a := scheduledAction{at: pos}

	name, arg, hasArg := strings.Cut(strings.TrimSpace(what), ":")
	switch kind := actionKind(strings.ToLower(name)); kind {
	case actionPause, actionResume, actionStop, actionLog:
		if hasArg {
			return scheduledAction{}, fmt.Errorf("action %q: %s takes no argument", raw, kind)
		}
		a.kind = kind
	case actionSeek:
		if !hasArg {
			return scheduledAction{}, fmt.Errorf("action %q: seek needs a target, e.g. seek:0", raw)
		}
		if a.seek, err = parseMillis(arg); err != nil {
			return scheduledAction{}, fmt.Errorf("action %q: %w", raw, err)
		}
		a.kind = kind
	default:
		return scheduledAction{}, fmt.Errorf("action %q: unknown action %q", raw, name)
	}

	return a, nil
}

func parseActions(args []string) ([]scheduledAction, error) {
	actions := make([]scheduledAction, 0, len(args))
	for _, raw := range args {
		a, err := parseAction(raw)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// run performs the action after the session crossed a.at at position pos.
func (a scheduledAction) run(ctx context.Context, c controls, pos time.Duration) error {
	log.Infof("action %s reached at %s", a, pos)

	switch a.kind {
	case actionPause:
		return c.Pause(ctx)
	case actionResume:
		return c.Resume(ctx)
	case actionStop:
		return c.Stop(ctx)
	case actionSeek:
		return c.SeekAbsolute(ctx, a.seek)
	default:
		return nil
	}
}
