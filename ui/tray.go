// Package ui provides the graphical user interface for the launcher.
// This file contains the system tray indicator functionality.
package ui

import (
	"sync"
	"time"

	"fyne.io/systray"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/yllada/lexair-launcher/common"
)

// Pre-generated icons for performance.
var (
	iconActive = GenerateActiveIcon()
	iconIdle   = GenerateIdleIcon()
)

// TrayIndicator manages the system tray icon and menu.
// It shows the running session and opens or closes the launcher without
// the control window.
type TrayIndicator struct {
	app        *Application
	statusItem *systray.MenuItem
	timerItem  *systray.MenuItem
	openItem   *systray.MenuItem
	closeItem  *systray.MenuItem

	mu          sync.Mutex
	running     bool
	startedAt   time.Time
	timerTicker *time.Ticker
	timerStop   chan struct{}
}

// NewTrayIndicator creates a new system tray indicator.
func NewTrayIndicator(app *Application) *TrayIndicator {
	return &TrayIndicator{
		app: app,
	}
}

// Run starts the system tray indicator.
// This should be called from a goroutine as it blocks.
func (t *TrayIndicator) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Stop removes the tray icon.
func (t *TrayIndicator) Stop() {
	systray.Quit()
}

// onReady is called when the systray is ready.
func (t *TrayIndicator) onReady() {
	systray.SetIcon(iconIdle)
	systray.SetTitle(common.AppName)
	systray.SetTooltip(common.AppName + " - Launcher closed")

	// ═══════════════════════════════════════════════════════════════════════
	// SESSION SECTION
	// ═══════════════════════════════════════════════════════════════════════
	t.statusItem = systray.AddMenuItem("○  Launcher closed", "Launcher state")
	t.statusItem.Disable()

	t.timerItem = systray.AddMenuItem("    ⏱ Session: 00:00:00", "Time with the launcher open")
	t.timerItem.Disable()
	t.timerItem.Hide()

	systray.AddSeparator()

	// ═══════════════════════════════════════════════════════════════════════
	// LAUNCHER ACTIONS
	// ═══════════════════════════════════════════════════════════════════════
	t.openItem = systray.AddMenuItem("▶  Open Launcher", "Open the web launcher")
	go func() {
		for range t.openItem.ClickedCh {
			glib.IdleAdd(func() {
				t.app.window.onOpenLauncher()
			})
		}
	}()

	t.closeItem = systray.AddMenuItem("⏹  Close Launcher", "Close the web launcher")
	t.closeItem.Hide()
	go func() {
		for range t.closeItem.ClickedCh {
			glib.IdleAdd(func() {
				t.app.shell.CloseLauncher()
			})
		}
	}()

	systray.AddSeparator()

	// ═══════════════════════════════════════════════════════════════════════
	// APP SECTION
	// ═══════════════════════════════════════════════════════════════════════
	showItem := systray.AddMenuItem("Open "+common.AppName, "Show the control window")
	go func() {
		for range showItem.ClickedCh {
			glib.IdleAdd(t.app.showWindow)
		}
	}()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Close "+common.AppName)
	go func() {
		for range quitItem.ClickedCh {
			glib.IdleAdd(t.app.Quit)
		}
	}()

	// A session may have started before the tray was ready.
	t.mu.Lock()
	running, startedAt := t.running, t.startedAt
	t.mu.Unlock()
	if running {
		t.SetRunning(startedAt)
	}
}

// onExit is called when the systray is about to exit.
func (t *TrayIndicator) onExit() {
	t.stopTimer()
	common.LogInfo("Tray indicator cleanup completed")
}

// SetRunning updates the tray to show an open launcher.
func (t *TrayIndicator) SetRunning(startedAt time.Time) {
	t.mu.Lock()
	t.running = true
	t.startedAt = startedAt
	t.mu.Unlock()

	systray.SetIcon(iconActive)
	systray.SetTooltip(common.AppName + " - Launcher open")

	if t.statusItem != nil {
		t.statusItem.SetTitle("●  Launcher open")
	}
	if t.timerItem != nil {
		t.timerItem.SetTitle("    ⏱ Session: " + common.FormatClock(0))
		t.timerItem.Show()
		t.startTimer()
	}
	if t.openItem != nil {
		t.openItem.Hide()
	}
	if t.closeItem != nil {
		t.closeItem.Show()
	}
}

// SetIdle updates the tray to show a closed launcher.
func (t *TrayIndicator) SetIdle() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()

	systray.SetIcon(iconIdle)
	systray.SetTooltip(common.AppName + " - Launcher closed")

	if t.statusItem != nil {
		t.statusItem.SetTitle("○  Launcher closed")
	}
	if t.timerItem != nil {
		t.timerItem.Hide()
	}
	t.stopTimer()
	if t.closeItem != nil {
		t.closeItem.Hide()
	}
	if t.openItem != nil {
		t.openItem.Show()
	}
}

// startTimer refreshes the session time once per second.
func (t *TrayIndicator) startTimer() {
	t.stopTimer()

	t.mu.Lock()
	ticker := time.NewTicker(common.ElapsedPollInterval)
	stop := make(chan struct{})
	t.timerTicker = ticker
	t.timerStop = stop
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				seconds := t.app.shell.GetElapsedTime()
				t.timerItem.SetTitle("    ⏱ Session: " + common.FormatClock(seconds))
			case <-stop:
				return
			}
		}
	}()
}

// stopTimer stops the session time ticker.
func (t *TrayIndicator) stopTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timerTicker != nil {
		t.timerTicker.Stop()
		t.timerTicker = nil
	}
	if t.timerStop != nil {
		close(t.timerStop)
		t.timerStop = nil
	}
}
