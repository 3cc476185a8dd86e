package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/lexair-launcher/common"
)

const (
	pagePolicies  = "policies"
	pageDashboard = "dashboard"
)

// MainWindow is the control window. It also serves as the shell's root window.
type MainWindow struct {
	app          *Application
	window       *gtk.ApplicationWindow
	headerBar    *gtk.HeaderBar
	stack        *gtk.Stack
	languageDrop *gtk.DropDown
	openButton   *gtk.Button
	closeButton  *gtk.Button
	timerLabel   *gtk.Label
	sessionLabel *gtk.Label
	statusBar    *gtk.Box
	statusLabel  *gtk.Label
	timerSource  glib.SourceHandle
}

// NewMainWindow creates a new main window.
func NewMainWindow(app *Application) *MainWindow {
	mw := &MainWindow{
		app: app,
	}

	mw.window = gtk.NewApplicationWindow(&app.app.Application)
	mw.window.SetTitle(common.ControlTitle)
	mw.window.SetDefaultSize(common.ControlWindowWidth, common.ControlWindowHeight)
	mw.window.SetResizable(false)
	mw.window.SetIconName(common.AppIconName)

	if app.opts.NoTray {
		// Without a tray icon closing the window ends the application.
		mw.window.ConnectCloseRequest(func() bool {
			mw.app.Quit()
			return true
		})
	} else {
		// Clicking X hides the window, the app keeps running in the tray.
		mw.window.SetHideOnClose(true)
	}

	mw.createLayout()
	mw.startTimer()

	return mw
}

// createLayout creates the window layout.
func (mw *MainWindow) createLayout() {
	mw.headerBar = gtk.NewHeaderBar()

	mw.languageDrop = mw.createLanguageDropDown()
	mw.headerBar.PackStart(mw.languageDrop)

	menuButton := gtk.NewMenuButton()
	menuButton.SetIconName("open-menu-symbolic")
	menuButton.SetTooltipText("Menu")
	menuButton.SetMenuModel(mw.createMenu())
	mw.headerBar.PackEnd(menuButton)

	minimizeButton := gtk.NewButton()
	minimizeButton.SetIconName("window-minimize-symbolic")
	minimizeButton.SetTooltipText("Minimize")
	minimizeButton.ConnectClicked(func() {
		if !mw.app.shell.MinimizeApplication() {
			mw.SetStatus("The window manager refused to minimize")
		}
	})
	mw.headerBar.PackEnd(minimizeButton)

	mw.window.SetTitlebar(mw.headerBar)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 0)

	mw.stack = gtk.NewStack()
	mw.stack.SetVExpand(true)
	mw.stack.SetTransitionType(gtk.StackTransitionTypeCrossfade)
	mw.stack.AddNamed(mw.createPoliciesPage(), pagePolicies)
	mw.stack.AddNamed(mw.createDashboardPage(), pageDashboard)
	mainBox.Append(mw.stack)

	mw.createStatusBar()
	mainBox.Append(mw.statusBar)

	mw.window.SetChild(mainBox)

	state := mw.app.shell.GetInitialState()
	if state.PoliciesAccepted {
		mw.stack.SetVisibleChildName(pageDashboard)
	} else {
		mw.stack.SetVisibleChildName(pagePolicies)
	}
	mw.refreshLaunchState()
}

// createLanguageDropDown builds the language selector.
func (mw *MainWindow) createLanguageDropDown() *gtk.DropDown {
	labels := make([]string, len(common.SupportedLanguages))
	for i, code := range common.SupportedLanguages {
		labels[i] = strings.ToUpper(code)
	}

	drop := gtk.NewDropDown(gtk.NewStringList(labels), nil)
	drop.SetTooltipText("Language")
	drop.AddCSSClass("flat")

	current := mw.app.shell.GetInitialState().Language
	for i, code := range common.SupportedLanguages {
		if code == current {
			drop.SetSelected(uint(i))
		}
	}

	drop.NotifyProperty("selected", func() {
		idx := int(drop.Selected())
		if idx < len(common.SupportedLanguages) {
			mw.app.shell.SetLanguage(common.SupportedLanguages[idx])
		}
	})
	return drop
}

// createPoliciesPage shows the usage policies the user must accept.
func (mw *MainWindow) createPoliciesPage() *gtk.Box {
	page := gtk.NewBox(gtk.OrientationVertical, 12)
	page.SetMarginTop(common.DialogMargin)
	page.SetMarginBottom(12)
	page.SetMarginStart(common.DialogMargin)
	page.SetMarginEnd(common.DialogMargin)

	title := gtk.NewLabel("Program Terms")
	title.SetXAlign(0)
	title.AddCSSClass("app-title")
	page.Append(title)

	subtitle := gtk.NewLabel("Read and accept to continue")
	subtitle.SetXAlign(0)
	subtitle.AddCSSClass("app-subtitle")
	page.Append(subtitle)

	body := gtk.NewLabel("This desktop tool is a dedicated launcher for the " + common.AppName +
		" web launcher. It does not install games or apps by itself; it opens the web launcher " +
		"in app mode without browser controls.\n\n" +
		"• Content (games, apps and tools) is managed from the web launcher.\n" +
		"• Accounts, sign in and sign up are handled on the " + common.AppName + " website.\n" +
		"• Do not share your account or credentials with third parties.\n" +
		"• Using this program implies accepting the " + common.AppName + " terms and policies.")
	body.SetWrap(true)
	body.SetXAlign(0)
	body.AddCSSClass("policies-text")

	scrolled := gtk.NewScrolledWindow()
	scrolled.SetVExpand(true)
	scrolled.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	scrolled.SetChild(body)
	page.Append(scrolled)

	buttonBox := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttonBox.SetHAlign(gtk.AlignEnd)

	declineBtn := gtk.NewButtonWithLabel("I do not accept")
	declineBtn.ConnectClicked(func() {
		mw.app.Quit()
	})
	buttonBox.Append(declineBtn)

	acceptBtn := gtk.NewButtonWithLabel("Accept and continue")
	acceptBtn.AddCSSClass("suggested-action")
	acceptBtn.ConnectClicked(func() {
		mw.app.shell.AcceptPolicies()
		mw.stack.SetVisibleChildName(pageDashboard)
		mw.SetStatus("Policies accepted")
	})
	buttonBox.Append(acceptBtn)

	page.Append(buttonBox)
	return page
}

// createDashboardPage holds the launcher controls and the session timer.
func (mw *MainWindow) createDashboardPage() *gtk.Box {
	page := gtk.NewBox(gtk.OrientationVertical, 16)
	page.SetMarginTop(common.DialogMargin)
	page.SetMarginBottom(12)
	page.SetMarginStart(common.DialogMargin)
	page.SetMarginEnd(common.DialogMargin)

	headerBox := gtk.NewBox(gtk.OrientationHorizontal, 12)
	titleBox := gtk.NewBox(gtk.OrientationVertical, 4)
	titleBox.SetHExpand(true)

	title := gtk.NewLabel(common.LauncherTitle)
	title.SetXAlign(0)
	title.AddCSSClass("app-title")
	titleBox.Append(title)

	subtitle := gtk.NewLabel("Desktop tool")
	subtitle.SetXAlign(0)
	subtitle.AddCSSClass("app-subtitle")
	titleBox.Append(subtitle)
	headerBox.Append(titleBox)

	settingsBtn := gtk.NewButton()
	settingsBtn.SetIconName("emblem-system-symbolic")
	settingsBtn.SetTooltipText("Launch options")
	settingsBtn.SetVAlign(gtk.AlignCenter)
	settingsBtn.ConnectClicked(func() {
		mw.onLaunchSettings(false)
	})
	headerBox.Append(settingsBtn)
	page.Append(headerBox)

	body := gtk.NewLabel("Opens your " + common.AppName + " web launcher in app mode: " +
		"no address bar, no zoom and fullscreen or windowed as you prefer.")
	body.SetWrap(true)
	body.SetXAlign(0)
	page.Append(body)

	card := gtk.NewBox(gtk.OrientationVertical, 12)
	card.AddCSSClass("launch-card")

	mw.sessionLabel = gtk.NewLabel("")
	mw.sessionLabel.SetXAlign(0)
	card.Append(mw.sessionLabel)

	mw.timerLabel = gtk.NewLabel(common.FormatClock(0))
	mw.timerLabel.AddCSSClass("session-timer")
	card.Append(mw.timerLabel)

	buttonBox := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttonBox.SetHAlign(gtk.AlignCenter)

	mw.openButton = gtk.NewButtonWithLabel("Open launcher")
	mw.openButton.AddCSSClass("launch-button")
	mw.openButton.ConnectClicked(mw.onOpenLauncher)
	buttonBox.Append(mw.openButton)

	mw.closeButton = gtk.NewButtonWithLabel("Close launcher")
	mw.closeButton.AddCSSClass("destructive-action")
	mw.closeButton.ConnectClicked(func() {
		mw.app.shell.CloseLauncher()
		mw.refreshLaunchState()
	})
	buttonBox.Append(mw.closeButton)

	card.Append(buttonBox)
	page.Append(card)

	tagline := gtk.NewLabel("Store, library, events and tokens are managed from the web launcher.")
	tagline.SetWrap(true)
	tagline.AddCSSClass("dim-label")
	tagline.AddCSSClass("caption")
	page.Append(tagline)

	return page
}

// createMenu creates the application menu.
func (mw *MainWindow) createMenu() *gio.Menu {
	menu := gio.NewMenu()

	launchSection := gio.NewMenu()
	launchSection.Append("Launch Options", "app.preferences")
	launchSection.Append("Session History", "app.history")
	menu.AppendSection("", &launchSection.MenuModel)

	appSection := gio.NewMenu()
	appSection.Append("About", "app.about")
	appSection.Append("Quit", "app.quit")
	menu.AppendSection("", &appSection.MenuModel)

	mw.setupActions()

	return menu
}

// setupActions configures menu actions.
func (mw *MainWindow) setupActions() {
	app := mw.app.app

	preferencesAction := gio.NewSimpleAction("preferences", nil)
	preferencesAction.ConnectActivate(func(_ *glib.Variant) {
		mw.onLaunchSettings(false)
	})
	app.AddAction(preferencesAction)
	app.SetAccelsForAction("app.preferences", []string{"<Control>comma"})

	historyAction := gio.NewSimpleAction("history", nil)
	historyAction.ConnectActivate(func(_ *glib.Variant) {
		mw.onHistory()
	})
	app.AddAction(historyAction)
	app.SetAccelsForAction("app.history", []string{"<Control>h"})

	openAction := gio.NewSimpleAction("open-launcher", nil)
	openAction.ConnectActivate(func(_ *glib.Variant) {
		mw.onOpenLauncher()
	})
	app.AddAction(openAction)
	app.SetAccelsForAction("app.open-launcher", []string{"<Control>o"})

	aboutAction := gio.NewSimpleAction("about", nil)
	aboutAction.ConnectActivate(func(_ *glib.Variant) {
		mw.onAbout()
	})
	app.AddAction(aboutAction)

	quitAction := gio.NewSimpleAction("quit", nil)
	quitAction.ConnectActivate(func(_ *glib.Variant) {
		mw.app.Quit()
	})
	app.AddAction(quitAction)
	app.SetAccelsForAction("app.quit", []string{"<Control>q"})
}

// createStatusBar creates the status bar.
func (mw *MainWindow) createStatusBar() {
	mw.statusBar = gtk.NewBox(gtk.OrientationHorizontal, 12)
	mw.statusBar.AddCSSClass("status-bar")

	mw.statusLabel = gtk.NewLabel("Ready")
	mw.statusLabel.SetXAlign(0)
	mw.statusLabel.SetHExpand(true)
	mw.statusBar.Append(mw.statusLabel)

	statusIcon := gtk.NewImage()
	statusIcon.SetFromIconName("video-display-symbolic")
	statusIcon.SetPixelSize(16)
	mw.statusBar.Append(statusIcon)
}

// startTimer polls the session clock once per interval.
func (mw *MainWindow) startTimer() {
	interval := uint(common.ElapsedPollInterval / time.Second)
	mw.timerSource = glib.TimeoutSecondsAdd(interval, func() bool {
		mw.updateTimer()
		return true
	})
	mw.window.ConnectDestroy(func() {
		if mw.timerSource != 0 {
			glib.SourceRemove(uint(mw.timerSource))
			mw.timerSource = 0
		}
	})
}

// updateTimer shows the elapsed time of the running session.
func (mw *MainWindow) updateTimer() {
	seconds := mw.app.shell.GetElapsedTime()
	mw.timerLabel.SetText(common.FormatClock(seconds))
}

// refreshLaunchState syncs buttons and labels with the launcher state.
func (mw *MainWindow) refreshLaunchState() {
	open := mw.app.shell.LauncherOpen()
	mw.openButton.SetSensitive(!open)
	mw.closeButton.SetSensitive(open)
	mw.updateTimer()

	info := mw.app.shell.GetLaunchMode()
	mode := "not chosen yet"
	if info.Mode != nil {
		mode = *info.Mode
		if mode == common.LaunchModeWindow {
			mode = fmt.Sprintf("window %d x %d", info.WindowWidth, info.WindowHeight)
		}
	}

	if open {
		mw.sessionLabel.SetText("Launcher open · " + mode)
		mw.sessionLabel.RemoveCSSClass("status-idle")
		mw.sessionLabel.AddCSSClass("status-running")
		mw.timerLabel.AddCSSClass("running")
	} else {
		mw.sessionLabel.SetText("Launcher closed · " + mode)
		mw.sessionLabel.RemoveCSSClass("status-running")
		mw.sessionLabel.AddCSSClass("status-idle")
		mw.timerLabel.RemoveCSSClass("running")
	}
}

// Show displays the window.
func (mw *MainWindow) Show() {
	mw.window.Show()
}

// Minimize iconifies the control window.
func (mw *MainWindow) Minimize() error {
	mw.window.Minimize()
	return nil
}

// Destroy removes the control window and quits the GTK application.
func (mw *MainWindow) Destroy() error {
	mw.window.Destroy()
	mw.app.app.Quit()
	return nil
}

// SetStatus updates the status text.
func (mw *MainWindow) SetStatus(text string) {
	if mw.statusLabel != nil {
		mw.statusLabel.SetText(text)
	}
}

// Event handlers

// onOpenLauncher asks for launch options on first use, then opens the launcher.
func (mw *MainWindow) onOpenLauncher() {
	if mw.app.shell.GetLaunchMode().Mode == nil {
		mw.onLaunchSettings(true)
		return
	}
	mw.app.openLauncher()
	mw.refreshLaunchState()
}

func (mw *MainWindow) onLaunchSettings(openAfterSave bool) {
	dialog := NewLaunchSettingsDialog(mw, openAfterSave)
	dialog.Show()
}

// onHistory lists the most recent sessions.
func (mw *MainWindow) onHistory() {
	if mw.app.history == nil {
		mw.showInfo("Session History", "Session history is not available.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := mw.app.history.List(ctx, 10)
	if err != nil {
		mw.showError("Session History", err.Error())
		return
	}
	summary, err := mw.app.history.Summary(ctx)
	if err != nil {
		mw.showError("Session History", err.Error())
		return
	}
	if summary.Sessions == 0 {
		mw.showInfo("Session History", "No sessions recorded yet.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d sessions, %s in total\n\n", summary.Sessions, common.FormatClock(summary.TotalSeconds))
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s  %s\n", e.StartedAt.Format("2006-01-02 15:04"), common.FormatClock(e.Seconds), e.Mode)
	}
	mw.showInfo("Session History", strings.TrimRight(b.String(), "\n"))
}

func (mw *MainWindow) onAbout() {
	about := gtk.NewAboutDialog()
	about.SetTransientFor(&mw.window.Window)
	about.SetModal(true)

	about.SetProgramName(common.LauncherTitle)
	about.SetLogoIconName(common.AppIconName)
	about.SetVersion(mw.app.opts.Version)
	about.SetComments("Opens the " + common.AppName + " web launcher as a desktop application.")
	about.SetWebsite(common.LauncherURL)
	about.SetWebsiteLabel(common.AppName)

	about.Show()
}

// showError displays an error dialog.
func (mw *MainWindow) showError(title, message string) {
	mw.showMessage(title, message, "dialog-error-symbolic")
}

// showInfo displays an information dialog.
func (mw *MainWindow) showInfo(title, message string) {
	mw.showMessage(title, message, "dialog-information-symbolic")
}

func (mw *MainWindow) showMessage(title, message, iconName string) {
	window := gtk.NewWindow()
	window.SetTitle(title)
	window.SetTransientFor(&mw.window.Window)
	window.SetModal(true)
	window.SetDefaultSize(350, 150)
	window.SetResizable(false)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 12)
	mainBox.SetMarginTop(common.DialogMargin)
	mainBox.SetMarginBottom(common.DialogMargin)
	mainBox.SetMarginStart(common.DialogMargin)
	mainBox.SetMarginEnd(common.DialogMargin)
	mainBox.SetHAlign(gtk.AlignCenter)

	icon := gtk.NewImage()
	icon.SetFromIconName(iconName)
	icon.SetPixelSize(48)
	mainBox.Append(icon)

	titleLabel := gtk.NewLabel(title)
	titleLabel.AddCSSClass("heading")
	mainBox.Append(titleLabel)

	msgLabel := gtk.NewLabel(message)
	msgLabel.SetWrap(true)
	msgLabel.SetMaxWidthChars(48)
	mainBox.Append(msgLabel)

	okBtn := gtk.NewButtonWithLabel("OK")
	okBtn.SetHAlign(gtk.AlignCenter)
	okBtn.SetMarginTop(12)
	okBtn.ConnectClicked(func() {
		window.Close()
	})
	mainBox.Append(okBtn)

	window.SetChild(mainBox)
	window.Show()
}
