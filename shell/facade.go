// Package shell is the command surface the presentation layer talks to.
// It combines the preference store and the launcher controller behind a
// small set of operations, each of which logs and absorbs host failures.
package shell

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/yllada/lexair-launcher/common"
	"github.com/yllada/lexair-launcher/config"
	"github.com/yllada/lexair-launcher/launcher"
)

// RootWindow is the primary control window.
type RootWindow interface {
	Minimize() error
	Destroy() error
}

// Launcher is the part of launcher.Controller the shell drives.
type Launcher interface {
	Open(cfg launcher.WindowConfig) error
	Close() error
	IsOpen() bool
	ElapsedSeconds() int
}

// InitialState is what the control surface needs to render on startup.
type InitialState struct {
	PoliciesAccepted bool    `json:"policiesAccepted"`
	LaunchMode       *string `json:"launchMode"`
	WindowWidth      int     `json:"windowWidth"`
	WindowHeight     int     `json:"windowHeight"`
	Language         string  `json:"language"`
}

// LaunchModeInfo is the stored launch mode and window size.
type LaunchModeInfo struct {
	Mode         *string `json:"mode"`
	WindowWidth  int     `json:"windowWidth"`
	WindowHeight int     `json:"windowHeight"`
}

// Shell implements the shell operations.
type Shell struct {
	store    *config.Store
	launcher Launcher
	url      string

	mu   sync.Mutex
	root RootWindow
	exit func(int)
}

// New creates a shell over store and ctrl. url is the remote endpoint
// rendered by the launcher window.
func New(store *config.Store, ctrl Launcher, url string) *Shell {
	if url == "" {
		url = common.LauncherURL
	}
	return &Shell{
		store:    store,
		launcher: ctrl,
		url:      url,
		exit:     os.Exit,
	}
}

// SetRootWindow attaches the primary window once it exists.
func (s *Shell) SetRootWindow(root RootWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
}

// SetExitFunc replaces the process exit used when the root window
// cannot be destroyed.
func (s *Shell) SetExitFunc(exit func(int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exit = exit
}

func (s *Shell) rootWindow() (RootWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return nil, common.ErrRootWindow
	}
	return s.root, nil
}

// URL returns the remote endpoint.
func (s *Shell) URL() string {
	return s.url
}

// GetInitialState returns the stored preferences for the first render.
func (s *Shell) GetInitialState() InitialState {
	prefs := s.store.Get()
	return InitialState{
		PoliciesAccepted: prefs.PoliciesAccepted,
		LaunchMode:       modeValue(prefs.LaunchMode),
		WindowWidth:      prefs.WindowWidth,
		WindowHeight:     prefs.WindowHeight,
		Language:         prefs.Language,
	}
}

// AcceptPolicies records that the user accepted the usage policies.
func (s *Shell) AcceptPolicies() bool {
	accepted := true
	s.store.Set(config.Update{PoliciesAccepted: &accepted})
	common.LogInfo("Usage policies accepted")
	return true
}

// ExitApplication closes the launcher and destroys the root window.
// When the root window cannot be destroyed the process exits with status 0.
func (s *Shell) ExitApplication() {
	common.LogInfo("Exiting application")
	if err := guard("close launcher", s.launcher.Close); err != nil {
		common.LogWarn("Could not close launcher on exit: %v", err)
	}

	root, err := s.rootWindow()
	if err == nil {
		err = guard("destroy root window", root.Destroy)
	}
	if err == nil {
		return
	}

	common.LogError("Could not destroy root window (%v), terminating", err)
	s.mu.Lock()
	exit := s.exit
	s.mu.Unlock()
	exit(0)
}

// ExitOnDone calls ExitApplication through dispatch once ctx is done.
// dispatch runs the exit on the thread that owns the windows. The returned
// stop func ends the watch without exiting.
func (s *Shell) ExitOnDone(ctx context.Context, dispatch func(func())) (stop func()) {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		select {
		case <-ctx.Done():
			select {
			case <-done:
				return
			default:
			}
			common.LogInfo("Shutdown requested: %v", context.Cause(ctx))
			dispatch(s.ExitApplication)
		case <-done:
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

// MinimizeApplication iconifies the root window. It reports false when the
// window is missing or the host refuses.
func (s *Shell) MinimizeApplication() bool {
	root, err := s.rootWindow()
	if err == nil {
		err = guard("minimize root window", root.Minimize)
	}
	if err != nil {
		common.LogWarn("%v", common.WrapError(err, common.ErrMinimize.Error()))
		return false
	}
	return true
}

// GetLaunchMode returns the stored mode and window size.
func (s *Shell) GetLaunchMode() LaunchModeInfo {
	prefs := s.store.Get()
	return LaunchModeInfo{
		Mode:         modeValue(prefs.LaunchMode),
		WindowWidth:  prefs.WindowWidth,
		WindowHeight: prefs.WindowHeight,
	}
}

// SetLaunchMode stores a launch mode. In window mode width and height are
// stored only when both are given; absent dimensions keep the stored size.
// Dimensions are ignored in fullscreen mode. Nothing is stored on error.
func (s *Shell) SetLaunchMode(mode string, width, height *int) error {
	parsed, err := config.ParseLaunchMode(mode)
	if err != nil {
		return err
	}

	update := config.Update{LaunchMode: &parsed}
	if parsed == config.LaunchModeWindow && (width != nil || height != nil) {
		if width == nil || height == nil {
			return fmt.Errorf("%w: width and height must be given together", common.ErrInvalidDimensions)
		}
		if *width <= 0 || *height <= 0 {
			return fmt.Errorf("%w: %dx%d", common.ErrInvalidDimensions, *width, *height)
		}
		w, h := *width, *height
		update.WindowWidth = &w
		update.WindowHeight = &h
	}

	prefs := s.store.Set(update)
	common.LogInfo("Launch mode set to %s (%dx%d)", prefs.LaunchMode, prefs.WindowWidth, prefs.WindowHeight)
	return nil
}

// SetLanguage stores a language code. Unsupported codes become the default language.
func (s *Shell) SetLanguage(code string) bool {
	normalized := config.NormalizeLanguage(code)
	if normalized != code {
		common.LogDebug("Unsupported language %q, using %q", code, normalized)
	}
	s.store.Set(config.Update{Language: &normalized})
	return true
}

// OpenLauncher opens the launcher window with the stored mode and size.
// It does nothing when the launcher is already open.
func (s *Shell) OpenLauncher() error {
	cfg := launcher.NewWindowConfig(s.store.Get(), s.url)
	return s.launcher.Open(cfg)
}

// CloseLauncher closes the launcher window if it is open.
func (s *Shell) CloseLauncher() bool {
	if err := guard("close launcher", s.launcher.Close); err != nil {
		common.LogWarn("Close launcher: %v", err)
	}
	return true
}

// GetElapsedTime returns the seconds the launcher has been open, or 0.
func (s *Shell) GetElapsedTime() int {
	return s.launcher.ElapsedSeconds()
}

// LauncherOpen reports whether the launcher window is live.
func (s *Shell) LauncherOpen() bool {
	return s.launcher.IsOpen()
}

func modeValue(mode config.LaunchMode) *string {
	if mode == config.LaunchModeUnset {
		return nil
	}
	value := string(mode)
	return &value
}

// guard runs a host call, turning a panic into an error.
func guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", common.ErrHostPanic, op, r)
		}
	}()
	return fn()
}
