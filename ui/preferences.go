// Package ui provides the graphical user interface for the launcher.
// This file contains the LaunchSettingsDialog for mode and window size.
package ui

import (
	"fmt"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/lexair-launcher/common"
)

// LaunchSettingsDialog edits the launch mode and the window size.
type LaunchSettingsDialog struct {
	window         *gtk.Window
	mainWindow     *MainWindow
	fullscreenBtn  *gtk.CheckButton
	windowBtn      *gtk.CheckButton
	resolutionDrop *gtk.DropDown
	resolutionRow  *gtk.Box
	resolutions    []common.Resolution
	openAfterSave  bool
}

// NewLaunchSettingsDialog creates the dialog. When openAfterSave is set the
// launcher opens as soon as the settings are saved.
func NewLaunchSettingsDialog(mainWindow *MainWindow, openAfterSave bool) *LaunchSettingsDialog {
	ld := &LaunchSettingsDialog{
		mainWindow:    mainWindow,
		openAfterSave: openAfterSave,
	}

	ld.build()
	return ld
}

// build constructs the dialog UI.
func (ld *LaunchSettingsDialog) build() {
	info := ld.mainWindow.app.shell.GetLaunchMode()

	ld.window = gtk.NewWindow()
	ld.window.SetTitle("Launch Options")
	ld.window.SetTransientFor(&ld.mainWindow.window.Window)
	ld.window.SetModal(true)
	ld.window.SetDefaultSize(440, 320)
	ld.window.SetResizable(false)

	rootBox := gtk.NewBox(gtk.OrientationVertical, 0)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 20)
	mainBox.SetMarginTop(common.DialogMargin)
	mainBox.SetMarginBottom(16)
	mainBox.SetMarginStart(common.DialogMargin)
	mainBox.SetMarginEnd(common.DialogMargin)

	// ═══════════════════════════════════════════════════════════════════
	// DISPLAY MODE SECTION
	// ═══════════════════════════════════════════════════════════════════
	modeSection := ld.createSection("Display Mode", "video-display-symbolic")
	modeCard := ld.createCard()

	ld.fullscreenBtn = gtk.NewCheckButtonWithLabel("Fullscreen")
	ld.windowBtn = gtk.NewCheckButtonWithLabel("Window")
	ld.windowBtn.SetGroup(ld.fullscreenBtn)

	if info.Mode != nil && *info.Mode == common.LaunchModeWindow {
		ld.windowBtn.SetActive(true)
	} else {
		ld.fullscreenBtn.SetActive(true)
	}
	ld.windowBtn.ConnectToggled(ld.updateResolutionVisibility)

	modeBox := gtk.NewBox(gtk.OrientationHorizontal, 16)
	modeBox.Append(ld.fullscreenBtn)
	modeBox.Append(ld.windowBtn)
	modeCard.Append(ld.createSettingRow(
		"Screen mode",
		"Fullscreen covers the whole display without window decorations",
		modeBox,
	))

	modeCard.Append(ld.createSeparator())

	ld.resolutions = presetsWith(common.Resolution{Width: info.WindowWidth, Height: info.WindowHeight})
	labels := make([]string, len(ld.resolutions))
	selected := uint(0)
	for i, r := range ld.resolutions {
		labels[i] = fmt.Sprintf("%d x %d", r.Width, r.Height)
		if r.Width == info.WindowWidth && r.Height == info.WindowHeight {
			selected = uint(i)
		}
	}
	ld.resolutionDrop = gtk.NewDropDown(gtk.NewStringList(labels), nil)
	ld.resolutionDrop.SetSelected(selected)
	ld.resolutionDrop.SetVAlign(gtk.AlignCenter)

	ld.resolutionRow = ld.createSettingRow(
		"Resolution",
		"Window size used in window mode",
		ld.resolutionDrop,
	)
	modeCard.Append(ld.resolutionRow)

	modeSection.Append(modeCard)
	mainBox.Append(modeSection)
	rootBox.Append(mainBox)

	// ═══════════════════════════════════════════════════════════════════
	// ACTION BUTTONS
	// ═══════════════════════════════════════════════════════════════════
	buttonBar := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttonBar.SetHAlign(gtk.AlignEnd)
	buttonBar.SetMarginTop(16)
	buttonBar.SetMarginBottom(20)
	buttonBar.SetMarginStart(common.DialogMargin)
	buttonBar.SetMarginEnd(common.DialogMargin)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.ConnectClicked(func() {
		ld.window.Close()
	})
	buttonBar.Append(cancelBtn)

	saveLabel := "Save"
	if ld.openAfterSave {
		saveLabel = "Save and open"
	}
	saveBtn := gtk.NewButtonWithLabel(saveLabel)
	saveBtn.AddCSSClass("suggested-action")
	saveBtn.ConnectClicked(func() {
		if ld.save() {
			ld.window.Close()
			if ld.openAfterSave {
				ld.mainWindow.onOpenLauncher()
			}
		}
	})
	buttonBar.Append(saveBtn)

	rootBox.Append(buttonBar)

	ld.window.SetChild(rootBox)
	ld.updateResolutionVisibility()
}

// presetsWith returns the resolution presets plus current when it is not one of them.
func presetsWith(current common.Resolution) []common.Resolution {
	out := append([]common.Resolution{}, common.ResolutionPresets...)
	for _, r := range out {
		if r == current {
			return out
		}
	}
	if current.Width > 0 && current.Height > 0 {
		out = append(out, current)
	}
	return out
}

// createSection creates a section with icon and title.
func (ld *LaunchSettingsDialog) createSection(title string, iconName string) *gtk.Box {
	section := gtk.NewBox(gtk.OrientationVertical, 8)

	headerBox := gtk.NewBox(gtk.OrientationHorizontal, 8)

	icon := gtk.NewImage()
	icon.SetFromIconName(iconName)
	icon.SetPixelSize(18)
	icon.AddCSSClass("dim-label")
	headerBox.Append(icon)

	label := gtk.NewLabel(title)
	label.SetXAlign(0)
	label.AddCSSClass("heading")
	label.AddCSSClass("dim-label")
	headerBox.Append(label)

	section.Append(headerBox)

	return section
}

// createCard creates a styled card container for settings.
func (ld *LaunchSettingsDialog) createCard() *gtk.Box {
	card := gtk.NewBox(gtk.OrientationVertical, 0)
	card.AddCSSClass("card")
	return card
}

// createSettingRow creates a row with title, description, and widget.
func (ld *LaunchSettingsDialog) createSettingRow(title string, description string, widget gtk.Widgetter) *gtk.Box {
	row := gtk.NewBox(gtk.OrientationHorizontal, 12)
	row.SetMarginTop(14)
	row.SetMarginBottom(14)
	row.SetMarginStart(16)
	row.SetMarginEnd(16)

	textBox := gtk.NewBox(gtk.OrientationVertical, 4)
	textBox.SetHExpand(true)

	titleLabel := gtk.NewLabel(title)
	titleLabel.SetXAlign(0)
	textBox.Append(titleLabel)

	descLabel := gtk.NewLabel(description)
	descLabel.SetXAlign(0)
	descLabel.AddCSSClass("dim-label")
	descLabel.AddCSSClass("caption")
	descLabel.SetWrap(true)
	textBox.Append(descLabel)

	row.Append(textBox)
	row.Append(widget)

	return row
}

// createSeparator creates a styled separator for cards.
func (ld *LaunchSettingsDialog) createSeparator() *gtk.Separator {
	sep := gtk.NewSeparator(gtk.OrientationHorizontal)
	sep.SetMarginStart(16)
	sep.SetMarginEnd(16)
	return sep
}

func (ld *LaunchSettingsDialog) updateResolutionVisibility() {
	ld.resolutionRow.SetSensitive(ld.windowBtn.Active())
}

// save stores the selection through the shell.
func (ld *LaunchSettingsDialog) save() bool {
	shell := ld.mainWindow.app.shell

	var err error
	if ld.windowBtn.Active() {
		r := common.Resolution{Width: common.DefaultWindowWidth, Height: common.DefaultWindowHeight}
		if idx := int(ld.resolutionDrop.Selected()); idx < len(ld.resolutions) {
			r = ld.resolutions[idx]
		}
		err = shell.SetLaunchMode(common.LaunchModeWindow, &r.Width, &r.Height)
	} else {
		err = shell.SetLaunchMode(common.LaunchModeFullscreen, nil, nil)
	}

	if err != nil {
		ld.mainWindow.showError("Could not save launch options", err.Error())
		return false
	}

	ld.mainWindow.refreshLaunchState()
	ld.mainWindow.SetStatus("Launch options saved")
	return true
}

// Show displays the dialog.
func (ld *LaunchSettingsDialog) Show() {
	ld.window.Show()
}
