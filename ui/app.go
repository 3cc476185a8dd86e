package ui

import (
	"context"
	"os"
	"path/filepath"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/lexair-launcher/common"
	"github.com/yllada/lexair-launcher/config"
	"github.com/yllada/lexair-launcher/history"
	"github.com/yllada/lexair-launcher/launcher"
	"github.com/yllada/lexair-launcher/reachability"
	"github.com/yllada/lexair-launcher/session"
	"github.com/yllada/lexair-launcher/shell"
)

// Options configures the GUI application.
type Options struct {
	// Context ends the application when it is done. Nil means never.
	Context         context.Context
	Version         string
	PreferencesPath string
	URL             string
	HistoryPath     string
	NoTray          bool
}

// Application represents the main application
type Application struct {
	app        *adw.Application
	window     *MainWindow
	store      *config.Store
	controller *launcher.Controller
	shell      *shell.Shell
	history    *history.Store
	notifier   *DBusNotifier
	tray       *TrayIndicator
	monitor    *reachability.Monitor
	opts       Options
}

// NewApplication creates a new application
func NewApplication(opts Options) *Application {
	if opts.PreferencesPath == "" {
		opts.PreferencesPath = common.DefaultPreferencesPath()
	}

	a := &Application{
		app:      adw.NewApplication(common.AppID, gio.ApplicationFlagsNone),
		store:    config.Load(opts.PreferencesPath),
		notifier: NewDBusNotifier(),
		opts:     opts,
	}

	a.controller = launcher.NewController(NewKioskHost(a), session.NewClock(nil))
	a.controller.SetOnSessionStarted(a.onSessionStarted)
	a.controller.SetOnSessionEnded(a.onSessionEnded)
	a.shell = shell.New(a.store, a.controller, opts.URL)

	a.openHistory()

	monitor, err := reachability.NewMonitor(a.shell.URL(), reachability.DefaultConfig())
	if err != nil {
		common.LogWarn("Launcher server monitoring disabled: %v", err)
	} else {
		monitor.SetOnChange(a.onReachabilityChanged)
		a.monitor = monitor
	}

	a.app.ConnectActivate(a.onActivate)
	a.app.ConnectShutdown(a.onShutdown)

	return a
}

// Run runs the application
func (a *Application) Run(args []string) int {
	if a.opts.Context != nil {
		stop := a.shell.ExitOnDone(a.opts.Context, func(fn func()) {
			glib.IdleAdd(fn)
		})
		defer stop()
	}
	return a.app.Run(args)
}

// openHistory opens the session database. The application runs without
// history when it cannot be opened.
func (a *Application) openHistory() {
	path := a.opts.HistoryPath
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			common.LogWarn("Session history disabled: %v", err)
			return
		}
	}

	store, err := history.Open(path)
	if err != nil {
		common.LogWarn("Session history disabled: %v", err)
		return
	}
	a.history = store
}

// onActivate is called when the application is activated
func (a *Application) onActivate() {
	if a.window != nil {
		a.showWindow()
		return
	}

	adw.StyleManagerGetDefault().SetColorScheme(adw.ColorSchemeForceDark)
	a.setupAppIcon()
	LoadStyles()

	a.window = NewMainWindow(a)
	a.shell.SetRootWindow(a.window)
	a.window.Show()

	if !a.opts.NoTray {
		a.tray = NewTrayIndicator(a)
		go a.tray.Run()
	}
	if a.monitor != nil {
		a.monitor.Start()
	}

	common.LogInfo("Control window ready (preferences at %s)", a.store.Path())
}

// onShutdown releases everything the application opened.
func (a *Application) onShutdown() {
	a.shell.CloseLauncher()

	if a.monitor != nil {
		a.monitor.Stop()
	}
	if a.tray != nil {
		a.tray.Stop()
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			common.LogWarn("Closing session history: %v", err)
		}
	}
	if err := a.notifier.Close(); err != nil {
		common.LogDebug("Closing notification bus: %v", err)
	}
	common.LogInfo("Application shut down")
}

// onReachabilityChanged reports launcher server changes in the status bar.
func (a *Application) onReachabilityChanged(_, state reachability.State) {
	glib.IdleAdd(func() {
		if a.window == nil {
			return
		}
		switch state {
		case reachability.StateReachable:
			a.window.SetStatus("Launcher server reachable")
		case reachability.StateDegraded:
			a.window.SetStatus("Launcher server did not answer, retrying")
		case reachability.StateUnreachable:
			a.window.SetStatus("Launcher server unreachable, check the network connection")
		}
	})
}

// setupAppIcon sets up the application icon
func (a *Application) setupAppIcon() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	iconTheme := gtk.IconThemeGetForDisplay(display)
	if iconTheme == nil {
		return
	}

	// GTK4 looks for theme subdirectories (like "hicolor") inside these paths
	iconTheme.AddSearchPath(filepath.Join(common.InstallDir(), "assets", "icons"))
	if cwd, err := os.Getwd(); err == nil {
		iconTheme.AddSearchPath(filepath.Join(cwd, "assets", "icons"))
	}

	gtk.WindowSetDefaultIconName(common.AppIconName)
}

// onSessionStarted runs after the launcher window opened.
func (a *Application) onSessionStarted(info launcher.SessionInfo) {
	common.LogInfo("Session %s started (%s)", info.ID, info.Mode)
	if a.tray != nil {
		a.tray.SetRunning(info.StartedAt)
	}
	glib.IdleAdd(func() {
		if a.window != nil {
			a.window.refreshLaunchState()
		}
	})
}

// onSessionEnded runs exactly once per closed launcher window.
func (a *Application) onSessionEnded(info launcher.SessionInfo) {
	seconds := int(info.Duration.Seconds())
	common.LogInfo("Session %s ended after %s (%s)", info.ID, common.FormatClock(seconds), info.Reason)

	if a.tray != nil {
		a.tray.SetIdle()
	}
	glib.IdleAdd(func() {
		if a.window != nil {
			a.window.refreshLaunchState()
			a.window.SetStatus("Last session " + common.FormatClock(seconds))
		}
	})

	if a.history != nil {
		a.history.RecordAsync(info, func(err error) {
			if err != nil {
				common.LogWarn("Could not record session: %v", err)
			}
		})
	}
	go NotifySessionEnded(a.notifier, seconds)
}

// openLauncher opens the launcher window and reports failures to the user.
func (a *Application) openLauncher() {
	if err := a.shell.OpenLauncher(); err != nil {
		if a.window != nil {
			a.window.showError("Could not open the launcher", err.Error())
		}
		go NotifyLaunchFailed(a.notifier, err)
	}
}

// showWindow shows the main window
func (a *Application) showWindow() {
	if a.window != nil {
		a.window.window.Present()
	}
}

// Shell returns the command surface of the application.
func (a *Application) Shell() *shell.Shell {
	return a.shell
}

// Quit closes the launcher and the application.
func (a *Application) Quit() {
	a.shell.ExitApplication()
}
