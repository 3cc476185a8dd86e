// Package main provides the entry point for the Lexair Launcher.
// Lexair Launcher is a GTK4 desktop shell that shows the usage policies,
// keeps the launch preferences and opens the Studio Lexair web launcher
// in a kiosk window.
//
// Features:
//   - Usage policy acceptance stored across runs
//   - Fullscreen or windowed launcher with a remembered size
//   - Session timer and session history
//   - System tray indicator and desktop notifications
//   - Command-line interface for scripting and automation
//
// Usage:
//
//	lexair-launcher [command] [options]
//
// Environment:
//
//	The launcher window requires WebKitGTK 6 and a graphical session.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yllada/lexair-launcher/cli"
	"github.com/yllada/lexair-launcher/common"
	"github.com/yllada/lexair-launcher/ui"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals (SIGINT, SIGTERM)
	setupSignalHandler(cancel)

	code := cli.Execute(ctx, cli.BuildInfo{
		Version: appVersion,
		Time:    buildTime,
		Commit:  commitSHA,
	}, runGUI)

	common.CloseLogger()
	os.Exit(code)
}

// runGUI starts the GTK application.
// GTK only sees the program name; cobra has already consumed the flags.
func runGUI(opts cli.GUIOptions) int {
	app := ui.NewApplication(ui.Options{
		Context:         opts.Context,
		Version:         opts.Version,
		PreferencesPath: opts.PreferencesPath,
		URL:             opts.URL,
		HistoryPath:     opts.HistoryPath,
		NoTray:          opts.NoTray,
	})
	return app.Run(os.Args[:1])
}

// setupSignalHandler configures graceful shutdown on SIGINT/SIGTERM.
// The first signal cancels the context, which closes the launcher and quits
// the GUI. A second signal terminates the process.
func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, initiating graceful shutdown...", sig)
		signal.Stop(sigChan)
		cancel()
	}()
}
