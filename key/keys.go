// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Player Settings - these keys mirror the fields of a playback session's settings.
const (
	PlayerLayer                  = "player.layer"
	PlayerDBusName               = "player.dbus_name"
	PlayerAudioOutput            = "player.audio_output"
	PlayerBackgroundColor        = "player.background_color"
	PlayerNoBackgroundColor      = "player.no_background_color"
	PlayerLoop                   = "player.loop"
	PlayerProgressInterval       = "player.progress_interval"
	PlayerVolume                 = "player.volume"
	PlayerDisableKeys            = "player.disable_keys"
	PlayerDisableOnScreenDisplay = "player.disable_osd"
	PlayerOrientation            = "player.orientation"
	PlayerSubtitles              = "player.subtitles"
	PlayerExtraArgs              = "player.extra_args"
	PlayerPipeDir                = "player.pipe_dir"
)

// Control Channel - these keys tune the readiness poll against the session bus.
const (
	ControlPollInterval = "control.poll_interval"
	ControlPollAttempts = "control.poll_attempts"
)

// Event Feed - these keys configure the websocket notification feed.
const (
	FeedListen  = "feed.listen"
	FeedSendBuf = "feed.send_buffer"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
	CliTUI     = "cli.tui"
)

// Icons - these keys select the symbol set used in CLI output.
const (
	IconsVariant = "icons.variant"
)
