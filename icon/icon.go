// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII or Unicode
// squares depending on user preference.
package icon

import (
	"github.com/omxconductor/omxconductor/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Play
	Pause
	Stop
	Progress
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

var icons = map[Icon]*iconDef{
	Success:  {emoji: "✅", nerd: "\uf00c", plain: "+", squares: "▣"},
	Fail:     {emoji: "❌", nerd: "\uf00d", plain: "x", squares: "▨"},
	Play:     {emoji: "▶️", nerd: "\uf04b", plain: ">", squares: "▶"},
	Pause:    {emoji: "⏸️", nerd: "\uf04c", plain: "=", squares: "▮"},
	Stop:     {emoji: "⏹️", nerd: "\uf04d", plain: "#", squares: "■"},
	Progress: {emoji: "⏳", nerd: "\uf254", plain: "~", squares: "▤"},
}

// Get retrieves the visual representation for the receiver based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}
