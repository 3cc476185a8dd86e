// Package config provides the persisted user preferences of the launcher.
// It handles loading, defaulting, validating and saving those preferences.
package config

import (
	"fmt"

	"github.com/yllada/lexair-launcher/common"
)

// LaunchMode is the display policy of the launcher window.
type LaunchMode string

const (
	// LaunchModeUnset means the user has not chosen a mode yet.
	LaunchModeUnset LaunchMode = ""
	// LaunchModeFullscreen opens the launcher covering the whole screen.
	LaunchModeFullscreen LaunchMode = common.LaunchModeFullscreen
	// LaunchModeWindow opens the launcher at the stored window size.
	LaunchModeWindow LaunchMode = common.LaunchModeWindow
)

// ParseLaunchMode validates a mode name. Only fullscreen and window are accepted.
func ParseLaunchMode(name string) (LaunchMode, error) {
	mode := LaunchMode(name)
	if !mode.Valid() {
		return LaunchModeUnset, fmt.Errorf("%w: %q", common.ErrInvalidLaunchMode, name)
	}
	return mode, nil
}

// Valid reports whether m is a selectable mode.
func (m LaunchMode) Valid() bool {
	return m == LaunchModeFullscreen || m == LaunchModeWindow
}

// String returns the mode name, or "unset".
func (m LaunchMode) String() string {
	if m == LaunchModeUnset {
		return "unset"
	}
	return string(m)
}

// Preferences represents the persisted launcher preferences.
// All fields are written to a YAML document next to the executable.
type Preferences struct {
	// PoliciesAccepted records that the user accepted the usage policies.
	PoliciesAccepted bool `yaml:"policies_accepted"`
	// LaunchMode is the display policy of the launcher window.
	LaunchMode LaunchMode `yaml:"launch_mode,omitempty"`
	// WindowWidth is the launcher width in window mode.
	WindowWidth int `yaml:"window_width"`
	// WindowHeight is the launcher height in window mode.
	WindowHeight int `yaml:"window_height"`
	// Language is the language code of the presentation layer.
	Language string `yaml:"language"`
}

// DefaultPreferences returns the preferences of a first run.
func DefaultPreferences() Preferences {
	return Preferences{
		PoliciesAccepted: false,
		LaunchMode:       LaunchModeUnset,
		WindowWidth:      common.DefaultWindowWidth,
		WindowHeight:     common.DefaultWindowHeight,
		Language:         common.DefaultLanguage,
	}
}

// EffectiveMode returns the mode used to open the launcher.
// An unset mode opens fullscreen.
func (p Preferences) EffectiveMode() LaunchMode {
	if p.LaunchMode == LaunchModeUnset {
		return LaunchModeFullscreen
	}
	return p.LaunchMode
}

// normalize repairs values that violate the preference invariants.
func (p *Preferences) normalize() {
	if p.LaunchMode != LaunchModeUnset && !p.LaunchMode.Valid() {
		p.LaunchMode = LaunchModeUnset
	}
	if p.WindowWidth <= 0 {
		p.WindowWidth = common.DefaultWindowWidth
	}
	if p.WindowHeight <= 0 {
		p.WindowHeight = common.DefaultWindowHeight
	}
	p.Language = NormalizeLanguage(p.Language)
}

// NormalizeLanguage returns code when it is supported and the default language otherwise.
func NormalizeLanguage(code string) string {
	if common.StringInSlice(code, common.SupportedLanguages) {
		return code
	}
	return common.DefaultLanguage
}

// Update is a partial preference change. Nil fields are left untouched.
type Update struct {
	PoliciesAccepted *bool
	LaunchMode       *LaunchMode
	WindowWidth      *int
	WindowHeight     *int
	Language         *string
}

// apply merges u into p. PoliciesAccepted only ever moves from false to true.
func (p *Preferences) apply(u Update) {
	if u.PoliciesAccepted != nil && *u.PoliciesAccepted {
		p.PoliciesAccepted = true
	}
	if u.LaunchMode != nil {
		p.LaunchMode = *u.LaunchMode
	}
	if u.WindowWidth != nil {
		p.WindowWidth = *u.WindowWidth
	}
	if u.WindowHeight != nil {
		p.WindowHeight = *u.WindowHeight
	}
	if u.Language != nil {
		p.Language = *u.Language
	}
	p.normalize()
}
