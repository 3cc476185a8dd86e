// Package ui provides the graphical user interface for the launcher.
// This file contains the CSS styles of the control window.
package ui

import (
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// CSS for the control window. Colors follow the dark Lexair palette.
const appCSS = `
/* Policies page */
.policies-text {
    padding: 12px;
    border-radius: 12px;
    border: 1px solid alpha(currentColor, 0.15);
    background-color: alpha(currentColor, 0.04);
}

.app-title {
    font-weight: 800;
    font-size: 22px;
    letter-spacing: 1px;
}

.app-subtitle {
    opacity: 0.7;
}

/* Launch panel */
.launch-card {
    border-radius: 12px;
    padding: 8px;
    border: 1px solid alpha(currentColor, 0.15);
}

.launch-button {
    background-color: #3584e4;
    color: white;
    font-weight: 600;
    min-height: 40px;
}

.launch-button:hover {
    background-color: #1c71d8;
}

button.destructive-action {
    background-color: #e01b24;
    color: white;
}

button.destructive-action:hover {
    background-color: #c01c28;
}

/* Session timer */
.session-timer {
    font-family: monospace;
    font-size: 28px;
    font-weight: 700;
    opacity: 0.5;
}

.session-timer.running {
    color: #2ec27e;
    opacity: 1;
}

.status-running {
    color: #2ec27e;
    font-weight: 600;
}

.status-idle {
    opacity: 0.6;
}

/* Status Bar */
.status-bar {
    border-top: 1px solid alpha(currentColor, 0.15);
    padding: 6px 12px;
    opacity: 0.8;
}

entry, spinbutton {
    border-radius: 6px;
    min-height: 34px;
}
`

// LoadStyles loads the custom CSS styles for the application.
// Should be called during application startup.
func LoadStyles() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromString(appCSS)

	gtk.StyleContextAddProviderForDisplay(
		display,
		provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}
