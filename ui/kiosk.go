// Package ui provides the graphical user interface for the launcher.
// This file contains the kiosk window host that renders the remote page.
package ui

import (
	"errors"
	"sync"

	"github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/lexair-launcher/common"
	"github.com/yllada/lexair-launcher/config"
	"github.com/yllada/lexair-launcher/launcher"
)

var errForeignWindow = errors.New("window was not created by this host")

// KioskHost creates chrome-less GTK windows with an embedded web view.
// All methods must run on the GTK main thread.
type KioskHost struct {
	app *Application
}

// NewKioskHost creates a host bound to app.
func NewKioskHost(app *Application) *KioskHost {
	return &KioskHost{app: app}
}

// CreateWindow opens a kiosk window for cfg.
func (h *KioskHost) CreateWindow(cfg launcher.WindowConfig) (launcher.Window, error) {
	if gdk.DisplayGetDefault() == nil {
		return nil, errors.New("no display available")
	}

	kw := &kioskWindow{confirm: cfg.ConfirmClose}

	kw.window = gtk.NewWindow()
	kw.window.SetTitle(cfg.Title)
	kw.window.SetIconName(common.AppIconName)
	if h.app != nil && h.app.app != nil {
		kw.window.SetApplication(&h.app.app.Application)
	}

	kw.view = webkit.NewWebView()
	kw.view.SetVExpand(true)
	kw.view.SetHExpand(true)
	kw.view.Settings().SetEnableDeveloperExtras(false)
	kw.view.ConnectLoadFailed(func(_ webkit.LoadEvent, failingURI string, err error) bool {
		common.LogError("Launcher page %s failed to load: %v", failingURI, err)
		return false
	})
	kw.disableZoom()
	kw.window.SetChild(kw.view)

	if cfg.Mode == config.LaunchModeWindow {
		kw.window.SetDefaultSize(cfg.Width, cfg.Height)
		kw.window.SetResizable(cfg.Resizable)
	} else {
		kw.window.Fullscreen()
	}

	kw.window.ConnectCloseRequest(kw.onCloseRequest)
	kw.window.ConnectDestroy(kw.onDestroy)

	kw.view.LoadURI(cfg.URL)
	kw.window.Present()

	common.LogDebug("Kiosk window created for %s", cfg.URL)
	return kw, nil
}

// ForceDestroy hides and destroys the window without confirmation. When the
// window is already gone the close callbacks still run.
func (h *KioskHost) ForceDestroy(w launcher.Window) error {
	kw, ok := w.(*kioskWindow)
	if !ok {
		return errForeignWindow
	}
	if kw.isGone() {
		kw.onDestroy()
		return nil
	}
	kw.bypassConfirm()
	kw.window.SetVisible(false)
	kw.window.Destroy()
	return nil
}

// kioskWindow is one launcher window.
type kioskWindow struct {
	window *gtk.Window
	view   *webkit.WebView

	mu        sync.Mutex
	confirm   bool
	asking    bool
	gone      bool
	callbacks []func()
}

// Destroy tears the window down without asking the user.
func (kw *kioskWindow) Destroy() error {
	if kw.isGone() {
		return nil
	}
	kw.bypassConfirm()
	kw.window.Destroy()
	return nil
}

// OnClosed registers fn for the destroy signal. fn runs at once when the
// window is already gone.
func (kw *kioskWindow) OnClosed(fn func()) {
	kw.mu.Lock()
	if kw.gone {
		kw.mu.Unlock()
		fn()
		return
	}
	kw.callbacks = append(kw.callbacks, fn)
	kw.mu.Unlock()
}

func (kw *kioskWindow) onDestroy() {
	kw.mu.Lock()
	kw.gone = true
	callbacks := kw.callbacks
	kw.callbacks = nil
	kw.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// onCloseRequest returns true to keep the window open.
func (kw *kioskWindow) onCloseRequest() bool {
	kw.mu.Lock()
	if !kw.confirm {
		kw.mu.Unlock()
		return false
	}
	if kw.asking {
		kw.mu.Unlock()
		return true
	}
	kw.asking = true
	kw.mu.Unlock()

	kw.askConfirmation()
	return true
}

func (kw *kioskWindow) bypassConfirm() {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	kw.confirm = false
}

func (kw *kioskWindow) isGone() bool {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	return kw.gone
}

// askConfirmation shows a small modal dialog over the launcher.
func (kw *kioskWindow) askConfirmation() {
	dialog := gtk.NewWindow()
	dialog.SetTitle(common.AppName)
	dialog.SetTransientFor(kw.window)
	dialog.SetModal(true)
	dialog.SetDefaultSize(360, 140)
	dialog.SetResizable(false)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 12)
	mainBox.SetMarginTop(common.DialogMargin)
	mainBox.SetMarginBottom(common.DialogMargin)
	mainBox.SetMarginStart(common.DialogMargin)
	mainBox.SetMarginEnd(common.DialogMargin)

	icon := gtk.NewImage()
	icon.SetFromIconName("dialog-question-symbolic")
	icon.SetPixelSize(48)
	mainBox.Append(icon)

	msgLabel := gtk.NewLabel("Close the launcher?")
	msgLabel.AddCSSClass("heading")
	mainBox.Append(msgLabel)

	buttonBox := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttonBox.SetHAlign(gtk.AlignCenter)

	decided := false
	stayBtn := gtk.NewButtonWithLabel("Stay")
	stayBtn.ConnectClicked(func() {
		dialog.Close()
	})
	buttonBox.Append(stayBtn)

	leaveBtn := gtk.NewButtonWithLabel("Close")
	leaveBtn.AddCSSClass("destructive-action")
	leaveBtn.ConnectClicked(func() {
		decided = true
		dialog.Close()
	})
	buttonBox.Append(leaveBtn)
	mainBox.Append(buttonBox)

	dialog.ConnectCloseRequest(func() bool {
		kw.mu.Lock()
		kw.asking = false
		if decided {
			kw.confirm = false
		}
		kw.mu.Unlock()
		if decided {
			kw.window.Close()
		}
		return false
	})

	dialog.SetChild(mainBox)
	dialog.Present()
}

// disableZoom swallows the zoom shortcuts of the web view.
func (kw *kioskWindow) disableZoom() {
	kw.view.SetZoomLevel(1.0)

	keys := gtk.NewEventControllerKey()
	keys.SetPropagationPhase(gtk.PhaseCapture)
	keys.ConnectKeyPressed(func(keyval, _ uint, state gdk.ModifierType) bool {
		if state&gdk.ControlMask == 0 {
			return false
		}
		switch keyval {
		case gdk.KEY_plus, gdk.KEY_equal, gdk.KEY_minus, gdk.KEY_0, gdk.KEY_KP_Add, gdk.KEY_KP_Subtract:
			return true
		}
		return false
	})
	kw.view.AddController(keys)

	scroll := gtk.NewEventControllerScroll(gtk.EventControllerScrollVertical)
	scroll.SetPropagationPhase(gtk.PhaseCapture)
	scroll.ConnectScroll(func(_, _ float64) bool {
		return scroll.CurrentEventState()&gdk.ControlMask != 0
	})
	kw.view.AddController(scroll)
}
