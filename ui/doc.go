// Package ui provides the graphical user interface for the launcher.
//
// This package implements the GTK4-based user interface including:
//
//   - Control window with the usage policies and the launcher controls
//   - Kiosk windows that render the remote launcher page
//   - System tray indicator with the running session time
//   - Launch options dialog
//   - Desktop notifications
//
// # Architecture
//
// The UI is built on GTK4 and libadwaita using the gotk4 bindings. Key components:
//
//   - Application: adw.Application lifecycle and wiring of the shell
//   - MainWindow: control window, also the shell's root window
//   - KioskHost: launcher.Host backed by a WebKitGTK web view
//   - TrayIndicator: system tray integration for background operation
//
// # Thread Safety
//
// GTK operations must execute on the main thread. Tray clicks and other
// background events use glib.IdleAdd() to schedule work on the main thread.
//
// # File Organization
//
//   - app.go: Application lifecycle and session callbacks
//   - main_window.go: Control window layout and menu
//   - kiosk.go: Launcher window host
//   - preferences.go: Launch options dialog
//   - tray.go: System tray indicator
//   - icons.go: Icon generation for tray
//   - styles.go: CSS styling
//   - notifications.go: Desktop notification integration
package ui
