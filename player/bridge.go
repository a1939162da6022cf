package player

import (
	"context"
	"time"
)

// PlayStatus is the playback status reported over the control channel.
type PlayStatus string

const (
	StatusPlaying PlayStatus = "Playing"
	StatusPaused  PlayStatus = "Paused"
)

// Numeric properties exposed by omxplayer.
const (
	PropertyPosition = "Position"
	PropertyDuration = "Duration"
	PropertyVolume   = "Volume"
)

// busUnitsPerMilli converts bus-native microseconds to milliseconds.
const busUnitsPerMilli = 1000

// Bridge issues request/response operations against a player's control
// interface. Every call is a single round trip without retry, and none of
// them assumes another has run first.
type Bridge interface {
	Status(ctx context.Context, name string) (PlayStatus, error)
	Float(ctx context.Context, name, property string) (float64, error)
	SetPosition(ctx context.Context, name string, pos time.Duration) error
	Pause(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	Resume(ctx context.Context, name string) error
}

// busDuration converts a bus-native time value into a duration with
// millisecond resolution.
func busDuration(v float64) time.Duration {
	return time.Duration(int64(v)/busUnitsPerMilli) * time.Millisecond
}

// busUnits converts a duration into the bus-native unit.
func busUnits(d time.Duration) int64 {
	return d.Milliseconds() * busUnitsPerMilli
}
