// Package common provides shared constants, types, and utilities
// used across the launcher application.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "com.studiolexair.launcher"
	// AppName is the display name of the application.
	AppName = "Studio Lexair"
	// ConfigDirName is the name of the per-user configuration directory.
	ConfigDirName = "lexair-launcher"
	// AppIconName is the themed icon name installed with the application.
	AppIconName = "lexair-launcher"
)

// File names used by the application.
const (
	PreferencesFileName       = "launcher_config.yaml"
	LegacyPreferencesFileName = "launcher_config.json"
	HistoryFileName           = "sessions.db"
	LogFileName               = "lexair-launcher.log"
)

// Remote endpoint rendered by the launcher window.
const (
	// LauncherURL is passed through to the host window untouched.
	LauncherURL = "https://studiolexair.servegame.com/"
	// LauncherTitle is the title of the secondary window.
	LauncherTitle = "Studio Lexair Launcher"
	// ControlTitle is the title of the primary control window.
	ControlTitle = "Studio Lexair - Herramienta de Escritorio"
)

// Launch modes.
const (
	LaunchModeFullscreen = "fullscreen"
	LaunchModeWindow     = "window"
)

// Default preference values.
const (
	// DefaultWindowWidth is the launcher width used in window mode.
	DefaultWindowWidth = 1280
	// DefaultWindowHeight is the launcher height used in window mode.
	DefaultWindowHeight = 720
	// DefaultLanguage is the fallback language code.
	DefaultLanguage = "es"
)

// Resolution is a window size offered by the launch settings.
type Resolution struct {
	Width  int
	Height int
}

// ResolutionPresets are the sizes offered for window mode.
var ResolutionPresets = []Resolution{
	{1024, 576},
	{1280, 720},
	{1366, 768},
	{1600, 900},
	{1920, 1080},
}

// SupportedLanguages lists the language codes the presentation layer ships.
var SupportedLanguages = []string{"es", "en", "fr", "de", "pt"}

// UI constants.
const (
	// ControlWindowWidth is the default control window width.
	ControlWindowWidth = 640
	// ControlWindowHeight is the default control window height.
	ControlWindowHeight = 480
	// MinLauncherWidth is the smallest width offered by the size picker.
	MinLauncherWidth = 640
	// MinLauncherHeight is the smallest height offered by the size picker.
	MinLauncherHeight = 360
	// MaxLauncherDimension caps the size picker.
	MaxLauncherDimension = 7680
	// DialogMargin is the standard margin for dialog content.
	DialogMargin = 24
	// TrayIconSize is the size of the system tray icon.
	TrayIconSize = 22
)

// Intervals.
const (
	// ElapsedPollInterval is how often the UI polls the session clock.
	ElapsedPollInterval = 1 * time.Second
	// NotificationTimeout is how long desktop notifications stay visible.
	NotificationTimeout = 5 * time.Second
)
