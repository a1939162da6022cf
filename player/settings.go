package player

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AudioOutput selects the route omxplayer renders audio to.
type AudioOutput string

const (
	AudioHDMI  AudioOutput = "hdmi"
	AudioLocal AudioOutput = "local"
	AudioBoth  AudioOutput = "both"
)

const (
	// DefaultLayer is the overlay layer that keeps the canonical bus name.
	DefaultLayer = 1

	// DefaultDBusName is the session bus name omxplayer registers by default.
	DefaultDBusName = "org.mpris.MediaPlayer2.omxplayer"

	// DefaultBackgroundColor is opaque black in 0xAARRGGBB.
	DefaultBackgroundColor uint32 = 0xff000000

	// DefaultProgressInterval is the sampling period in milliseconds.
	DefaultProgressInterval = 1000
)

var orientations = []int{0, 90, 180, 270}

// Settings describes one playback session. Apart from TestMode it is not
// modified once a Player has been constructed.
type Settings struct {
	Layer                  int         `json:"layer" yaml:"layer" jsonschema:"minimum=1"`
	DBusName               string      `json:"dbus_name" yaml:"dbus_name"`
	AudioOutput            AudioOutput `json:"audio_output" yaml:"audio_output" jsonschema:"enum=hdmi,enum=local,enum=both"`
	BackgroundColor        uint32      `json:"background_color" yaml:"background_color"`
	NoBackgroundColor      bool        `json:"no_background_color" yaml:"no_background_color"`
	Loop                   bool        `json:"loop" yaml:"loop"`
	ProgressInterval       int         `json:"progress_interval" yaml:"progress_interval" jsonschema:"minimum=1"`
	Volume                 float64     `json:"volume" yaml:"volume"`
	DisableKeys            bool        `json:"disable_keys" yaml:"disable_keys"`
	DisableOnScreenDisplay bool        `json:"disable_osd" yaml:"disable_osd"`
	Orientation            int         `json:"orientation" yaml:"orientation" jsonschema:"enum=0,enum=90,enum=180,enum=270"`
	Subtitles              string      `json:"subtitles,omitempty" yaml:"subtitles,omitempty"`
	ExtraArgs              []string    `json:"extra_args,omitempty" yaml:"extra_args,omitempty"`
	TestMode               bool        `json:"test_mode" yaml:"test_mode"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Layer:            DefaultLayer,
		DBusName:         DefaultDBusName,
		AudioOutput:      AudioBoth,
		BackgroundColor:  DefaultBackgroundColor,
		Loop:             true,
		ProgressInterval: DefaultProgressInterval,
		Volume:           1,
	}
}

// Resolve fills derived fields. A bus name left at the default (or empty)
// gets the layer appended when the layer is not DefaultLayer, so sessions on
// distinct layers address distinct endpoints.
func (s Settings) Resolve() Settings {
	if s.DBusName == "" {
		s.DBusName = DefaultDBusName
	}
	if s.DBusName == DefaultDBusName && s.Layer != DefaultLayer {
		s.DBusName = DefaultDBusName + strconv.Itoa(s.Layer)
	}
	if len(s.ExtraArgs) == 0 {
		s.ExtraArgs = nil
	}
	return s
}

// Validate checks the settings against the values omxplayer accepts.
func (s Settings) Validate() error {
	if s.Layer < 1 {
		return fmt.Errorf("%w: layer must be positive, got %d", ErrInvalidSettings, s.Layer)
	}

	switch s.AudioOutput {
	case AudioHDMI, AudioLocal, AudioBoth:
	default:
		return fmt.Errorf("%w: unknown audio output %q", ErrInvalidSettings, s.AudioOutput)
	}

	if math.IsNaN(s.Volume) || math.IsInf(s.Volume, 0) {
		return fmt.Errorf("%w: volume must be finite, got %v", ErrInvalidSettings, s.Volume)
	}

	if s.ProgressInterval <= 0 {
		return fmt.Errorf("%w: progress interval must be positive, got %d", ErrInvalidSettings, s.ProgressInterval)
	}

	valid := false
	for _, o := range orientations {
		if s.Orientation == o {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: orientation must be one of %v, got %d", ErrInvalidSettings, orientations, s.Orientation)
	}

	if strings.TrimSpace(s.DBusName) == "" {
		return fmt.Errorf("%w: empty dbus name", ErrInvalidSettings)
	}

	return nil
}

// FormatColor renders a color the way omxplayer's -b flag expects it.
func FormatColor(c uint32) string {
	return fmt.Sprintf("0x%08x", c)
}

// ParseColor accepts 0xAARRGGBB (or any base prefix strconv understands).
func ParseColor(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}
