//go:build !nogui
// +build !nogui

// Package gui implements the graphical interface: folder selection,
// filter checkboxes, custom regex entry, and the sort action.
package gui

import (
	"fmt"

	"aethersort/internal/config"
	"aethersort/internal/rules"
	"aethersort/internal/sorter"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	cfgPath    string

	pathEntry   *widget.Entry
	regexEntry  *widget.Entry
	prefixEntry *widget.Entry
	presetCheck map[string]*widget.Check
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, cfgPath string) *App {
	fyneApp := app.NewWithID("io.github.aethersort")

	a := &App{
		fyneApp:     fyneApp,
		cfg:         cfg,
		cfgPath:     cfgPath,
		presetCheck: make(map[string]*widget.Check),
	}

	a.mainWindow = fyneApp.NewWindow("AetherSort")
	a.mainWindow.Resize(fyne.NewSize(600, 520))
	a.mainWindow.SetContent(a.buildContent())

	return a
}

func (a *App) buildContent() fyne.CanvasObject {
	// Folder selection
	a.pathEntry = widget.NewEntry()
	a.pathEntry.SetPlaceHolder("No folder selected")
	a.pathEntry.SetText(a.cfg.Directories.Default)

	browseButton := widget.NewButton("Browse...", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			a.pathEntry.SetText(uri.Path())
		}, a.mainWindow)
	})

	folderBox := widget.NewCard("Folder Selection", "",
		container.NewBorder(nil, nil, nil, browseButton, a.pathEntry))

	// Filter checkboxes
	var checks []fyne.CanvasObject
	for _, name := range rules.PresetOrder {
		check := widget.NewCheck(name, nil)
		a.presetCheck[name] = check
		checks = append(checks, check)
	}

	a.regexEntry = widget.NewEntry()
	a.regexEntry.SetPlaceHolder(`Custom regex (e.g. .*\.bak$)`)
	checks = append(checks, widget.NewLabel("Custom Regex:"), a.regexEntry)

	filterBox := widget.NewCard("Filters", "", container.NewVBox(checks...))

	// Prefix and actions
	a.prefixEntry = widget.NewEntry()
	a.prefixEntry.SetText(a.cfg.Settings.FolderPrefix)

	saveButton := widget.NewButton("Save Filters to Config", a.saveConfig)
	sortButton := widget.NewButton("Sort Files", a.sortFiles)

	actionBox := widget.NewCard("Actions", "", container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Folder Prefix:"), nil, a.prefixEntry),
		container.NewGridWithColumns(2, saveButton, sortButton),
	))

	return container.NewVBox(folderBox, filterBox, actionBox)
}

// selectedRules composes the rule set from the checked filters.
func (a *App) selectedRules() (rules.Set, error) {
	var set rules.Set
	presets := rules.Presets()
	for _, name := range rules.PresetOrder {
		if a.presetCheck[name].Checked {
			set = append(set, presets[name])
		}
	}
	if pattern := a.regexEntry.Text; pattern != "" {
		rule := &rules.Rule{
			Name:        "Custom",
			Kind:        rules.Regex,
			Pattern:     pattern,
			Destination: "Backups",
		}
		if err := rule.Compile(); err != nil {
			return nil, err
		}
		set = append(set, rule)
	}
	return set, nil
}

func (a *App) saveConfig() {
	set, err := a.selectedRules()
	if err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}
	if len(set) > 0 {
		a.cfg.Rules = set
	}
	a.cfg.Settings.FolderPrefix = a.prefixEntry.Text
	a.cfg.Directories.Default = a.pathEntry.Text

	if err := config.Save(a.cfg, a.cfgPath); err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}
	dialog.ShowInformation("Success", fmt.Sprintf("Filters saved to %s", a.cfgPath), a.mainWindow)
}

func (a *App) sortFiles() {
	dir := a.pathEntry.Text
	if dir == "" {
		dialog.ShowInformation("Warning", "Please select a source folder", a.mainWindow)
		return
	}

	set, err := a.selectedRules()
	if err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}
	if len(set) == 0 {
		set = a.cfg.Rules
	}
	if len(set) == 0 {
		dialog.ShowInformation("Warning", "No filters selected", a.mainWindow)
		return
	}

	runCfg := *a.cfg
	runCfg.Rules = set
	runCfg.Settings.FolderPrefix = a.prefixEntry.Text

	engine := sorter.NewWithConfig(&runCfg)
	_, summary, err := engine.SortDirectory(dir)
	if err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}

	dialog.ShowInformation("Success", fmt.Sprintf(
		"Sorting completed!\nMoved: %d files\nSkipped: %d files\nErrors: %d files",
		summary.Moved, summary.Skipped, summary.Errors), a.mainWindow)
}

// Run shows the main window and enters the event loop.
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
}

// Run starts the graphical interface.
func Run(cfg *config.Config, cfgPath string) error {
	NewApp(cfg, cfgPath).Run()
	return nil
}

// Available reports whether the GUI is compiled into this build
func Available() bool {
	return true
}
