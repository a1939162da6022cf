// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/omxconductor/omxconductor/color"
	"github.com/omxconductor/omxconductor/constant"
	"github.com/omxconductor/omxconductor/key"
	"github.com/omxconductor/omxconductor/player"
	"github.com/omxconductor/omxconductor/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Omxconductor + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	defaults := player.DefaultSettings()

	register(key.PlayerLayer, defaults.Layer, "Overlay layer (z-order) of the video surface.\nNon-default layers get their own control-channel name")
	register(key.PlayerDBusName, defaults.DBusName, "Base session bus name of the player.\nThe layer number is appended for layers other than 1")
	register(key.PlayerAudioOutput, string(defaults.AudioOutput), "Audio output route.\nAvailable options are: hdmi, local, both")
	register(key.PlayerBackgroundColor, player.FormatColor(defaults.BackgroundColor), "Background fill color as 0xAARRGGBB")
	register(key.PlayerNoBackgroundColor, defaults.NoBackgroundColor, "Do not paint a background behind the video")
	register(key.PlayerLoop, defaults.Loop, "Loop playback of the resource")
	register(key.PlayerProgressInterval, defaults.ProgressInterval, "Interval in milliseconds between progress samples")
	register(key.PlayerVolume, defaults.Volume, "Initial volume on a linear scale (1.0 is unity gain)")
	register(key.PlayerDisableKeys, defaults.DisableKeys, "Ignore keyboard input in the player")
	register(key.PlayerDisableOnScreenDisplay, defaults.DisableOnScreenDisplay, "Suppress the player's on-screen display")
	register(key.PlayerOrientation, defaults.Orientation, "Display orientation in degrees.\nAvailable options are: 0, 90, 180, 270")
	register(key.PlayerSubtitles, "", "Subtitle file passed to the player")
	register(key.PlayerExtraArgs, []string{}, "Additional raw arguments appended to the player invocation")
	register(key.PlayerPipeDir, "", "Directory holding the session named pipes.\nEmpty means the working directory")
	register(key.ControlPollInterval, int(player.DefaultPollInterval.Milliseconds()), "Milliseconds between control channel readiness checks")
	register(key.ControlPollAttempts, player.DefaultPollAttempts, "Readiness checks before giving up on the control channel")
	register(key.FeedListen, "", "Address for the websocket event feed, e.g. :8080.\nEmpty disables the feed")
	register(key.FeedSendBuf, 32, "Per-client queue size of the websocket feed")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, squares, nerd (nerd-font required), plain")
	register(key.CliTUI, true, "Show the interactive progress view while playing")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
