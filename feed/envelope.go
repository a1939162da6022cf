package feed

import (
	"encoding/json"
	"time"

	"github.com/omxconductor/omxconductor/player"
)

// envelope is the wire format of every feed message.
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

type progressData struct {
	PositionMs int64   `json:"position_ms"`
	DurationMs int64   `json:"duration_ms"`
	Ratio      float64 `json:"ratio"`
}

type closedData struct {
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
	Error  string `json:"error,omitempty"`
}

type errorData struct {
	Error string `json:"error"`
}

// payload maps an event to its externally consumable data. Events without a
// payload return nil so the data field is omitted.
func payload(e player.Event) any {
	switch ev := e.(type) {
	case player.OpenEvent:
		return ev
	case player.ReadyEvent:
		return ev.Readiness
	case player.ProgressEvent:
		return progressData{
			PositionMs: ev.Position.Milliseconds(),
			DurationMs: ev.Duration.Milliseconds(),
			Ratio:      ev.Ratio,
		}
	case player.ClosedEvent:
		d := closedData{Stdout: ev.Stdout, Stderr: ev.Stderr}
		if ev.Err != nil {
			d.Error = ev.Err.Error()
		}
		return d
	case player.ErrorEvent:
		if ev.Err == nil {
			return errorData{}
		}
		return errorData{Error: ev.Err.Error()}
	default:
		return nil
	}
}

// Encode serializes an event into a feed frame stamped with at.
func Encode(e player.Event, at time.Time) ([]byte, error) {
	ts := at.UTC()
	return json.Marshal(envelope{
		Type: string(e.Kind()),
		Ts:   &ts,
		Data: payload(e),
	})
}
