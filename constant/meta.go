// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Omxconductor is the canonical application identifier used for filesystem paths and CLI branding.
	Omxconductor = "omxconductor"

	// Version is the current application semantic version string.
	Version = "0.4.0"

	// Executable is the name of the external playback binary driven by the conductor.
	Executable = "omxplayer"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = ""
	BuiltBy  = ""
	Revision = ""
)
