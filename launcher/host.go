// Package launcher owns the secondary window that renders the remote
// launcher page. It enforces the single-window invariant, times the
// session and converges to a closed state whatever the host reports.
package launcher

import (
	"fmt"
	"time"

	"github.com/yllada/lexair-launcher/common"
	"github.com/yllada/lexair-launcher/config"
)

// WindowConfig describes the window the host should create.
type WindowConfig struct {
	// Title is the window title.
	Title string
	// URL is the remote endpoint. It is passed through untouched.
	URL string
	// Mode is fullscreen or window.
	Mode config.LaunchMode
	// Width and Height apply in window mode only.
	Width  int
	Height int
	// Resizable lets the user resize a windowed launcher.
	Resizable bool
	// ConfirmClose asks the user before the window closes.
	ConfirmClose bool
}

// NewWindowConfig builds the launcher window config from preferences.
// Window dimensions always come from the stored preferences.
func NewWindowConfig(prefs config.Preferences, url string) WindowConfig {
	cfg := WindowConfig{
		Title:        common.LauncherTitle,
		URL:          url,
		Mode:         prefs.EffectiveMode(),
		ConfirmClose: true,
	}
	if cfg.Mode == config.LaunchModeWindow {
		cfg.Width = prefs.WindowWidth
		cfg.Height = prefs.WindowHeight
		cfg.Resizable = true
	}
	return cfg
}

// String summarizes the config for logs.
func (c WindowConfig) String() string {
	if c.Mode == config.LaunchModeWindow {
		return fmt.Sprintf("%s %dx%d", c.Mode, c.Width, c.Height)
	}
	return c.Mode.String()
}

// Window is an opaque window created by the host.
type Window interface {
	// Destroy closes the window gracefully.
	Destroy() error
	// OnClosed registers fn to run when the window goes away for any reason.
	// The host may call fn from any goroutine and more than once.
	OnClosed(fn func())
}

// Host is the windowing capability the controller drives.
type Host interface {
	// CreateWindow opens a new window rendering cfg.URL.
	CreateWindow(cfg WindowConfig) (Window, error)
	// ForceDestroy tears a window down when Destroy failed.
	ForceDestroy(w Window) error
}

// SessionClock is the timer the controller starts and resets.
type SessionClock interface {
	Start()
	Reset()
	Elapsed() time.Duration
	ElapsedSeconds() int
	StartedAt() (time.Time, bool)
}

// State is the lifecycle state of the launcher window.
type State int

const (
	// StateClosed means no launcher window exists.
	StateClosed State = iota
	// StateOpening means the host is creating the window.
	StateOpening
	// StateOpen means the window is live and the session clock runs.
	StateOpen
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpening:
		return "Opening"
	case StateOpen:
		return "Open"
	default:
		return "Unknown"
	}
}

// EndReason tells who ended a session.
type EndReason string

const (
	// ReasonClosedByUser means the host reported the window closed.
	ReasonClosedByUser EndReason = "closed-by-user"
	// ReasonClosedByShell means Close was called.
	ReasonClosedByShell EndReason = "closed-by-shell"
)

// SessionInfo describes one open interval of the launcher window.
type SessionInfo struct {
	ID        string
	Mode      config.LaunchMode
	Width     int
	Height    int
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Reason    EndReason
}

// safeCall runs a host call, turning a panic into an error.
func safeCall(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", common.ErrHostPanic, op, r)
		}
	}()
	return fn()
}
