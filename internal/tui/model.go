// Package tui implements the interactive terminal interface: a menu for
// selecting the folder, toggling filter rules, setting the folder
// prefix, running the sort, and saving the configuration.
package tui

import (
	"fmt"
	"os"
	"strings"

	"aethersort/internal/config"
	"aethersort/internal/rules"
	"aethersort/internal/sorter"
	"aethersort/pkg/types"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateMenu state = iota
	stateRules
	stateInput
	stateResults
)

type inputTarget int

const (
	inputFolder inputTarget = iota
	inputPrefix
	inputRegex
)

var menuItems = []string{
	"Select Folder",
	"Choose Filters",
	"Set Folder Prefix",
	"Sort Files",
	"Save Config",
	"Exit",
}

// Model is the bubbletea model for the terminal interface.
type Model struct {
	cfg     *config.Config
	cfgPath string

	state  state
	cursor int

	sourceDir   string
	presets     map[string]bool
	customRegex string

	input       textinput.Model
	inputTarget inputTarget

	statusMsg string
	summary   types.Summary
	results   []types.SortResult
}

// New creates a model backed by the given configuration.
func New(cfg *config.Config, cfgPath string) *Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48

	dir := cfg.Directories.Default
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}

	return &Model{
		cfg:       cfg,
		cfgPath:   cfgPath,
		sourceDir: dir,
		presets:   make(map[string]bool),
		input:     ti,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.state {
	case stateInput:
		return m.updateInput(keyMsg)
	case stateRules:
		return m.updateRules(keyMsg)
	case stateResults:
		// Any key returns to the menu
		m.state = stateMenu
		return m, nil
	default:
		return m.updateMenu(keyMsg)
	}
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k", "w":
		m.cursor = (m.cursor - 1 + len(menuItems)) % len(menuItems)
	case "down", "j", "s":
		m.cursor = (m.cursor + 1) % len(menuItems)
	case "enter":
		return m.selectMenuItem()
	}
	return m, nil
}

func (m *Model) selectMenuItem() (tea.Model, tea.Cmd) {
	switch menuItems[m.cursor] {
	case "Select Folder":
		m.beginInput(inputFolder, "Folder to sort", m.sourceDir)
	case "Choose Filters":
		m.state = stateRules
		m.cursor = 0
	case "Set Folder Prefix":
		m.beginInput(inputPrefix, "Folder prefix", m.cfg.Settings.FolderPrefix)
	case "Sort Files":
		m.runSort()
	case "Save Config":
		m.saveConfig()
	case "Exit":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) beginInput(target inputTarget, prompt, value string) {
	m.inputTarget = target
	m.input.Prompt = prompt + " > "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.state = stateInput
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		if m.inputTarget == inputRegex {
			m.state = stateRules
		} else {
			m.state = stateMenu
		}
		return m, nil
	case "enter":
		m.applyInput(strings.TrimSpace(m.input.Value()))
		m.input.Blur()
		if m.state == stateInput {
			m.state = stateMenu
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyInput(value string) {
	switch m.inputTarget {
	case inputFolder:
		if value == "" {
			return
		}
		info, err := os.Stat(value)
		if err != nil || !info.IsDir() {
			m.statusMsg = errorStyle.Render("Invalid directory: " + value)
			return
		}
		m.sourceDir = value
		m.statusMsg = "Folder set to " + value
	case inputPrefix:
		m.cfg.Settings.FolderPrefix = value
		m.statusMsg = "Prefix set to " + value
	case inputRegex:
		if value != "" {
			rule := &rules.Rule{Kind: rules.Regex, Pattern: value, Destination: "Backups"}
			if err := rule.Compile(); err != nil {
				m.statusMsg = errorStyle.Render("Invalid regex: " + value)
				m.state = stateRules
				return
			}
		}
		m.customRegex = value
		m.state = stateRules
	}
}

func (m *Model) updateRules(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Preset toggles, then the custom-regex entry, then Back
	items := len(rules.PresetOrder) + 2

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		m.cursor = 0
	case "up", "k", "w":
		m.cursor = (m.cursor - 1 + items) % items
	case "down", "j", "s":
		m.cursor = (m.cursor + 1) % items
	case "enter", " ":
		switch {
		case m.cursor < len(rules.PresetOrder):
			name := rules.PresetOrder[m.cursor]
			m.presets[name] = !m.presets[name]
		case m.cursor == len(rules.PresetOrder):
			m.beginInput(inputRegex, "Regex pattern (e.g. .*\\.bak$)", m.customRegex)
		default:
			m.state = stateMenu
			m.cursor = 0
		}
	}
	return m, nil
}

// selectedRules composes the rule set from the toggled presets and the
// custom regex, in display order.
func (m *Model) selectedRules() rules.Set {
	var set rules.Set
	presets := rules.Presets()
	for _, name := range rules.PresetOrder {
		if m.presets[name] {
			set = append(set, presets[name])
		}
	}
	if m.customRegex != "" {
		set = append(set, &rules.Rule{
			Name:        "Custom",
			Kind:        rules.Regex,
			Pattern:     m.customRegex,
			Destination: "Backups",
		})
	}
	return set
}

func (m *Model) runSort() {
	if m.sourceDir == "" {
		m.statusMsg = errorStyle.Render("Please select a folder first")
		return
	}

	set := m.selectedRules()
	if len(set) == 0 {
		set = m.cfg.Rules
	}
	if len(set) == 0 {
		m.statusMsg = errorStyle.Render("No filters selected and no rules configured")
		return
	}

	runCfg := *m.cfg
	runCfg.Rules = set

	engine := sorter.NewWithConfig(&runCfg)
	results, summary, err := engine.SortDirectory(m.sourceDir)
	if err != nil {
		m.statusMsg = errorStyle.Render("Sort failed: " + err.Error())
		return
	}

	m.results = results
	m.summary = summary
	m.state = stateResults
}

func (m *Model) saveConfig() {
	if set := m.selectedRules(); len(set) > 0 {
		m.cfg.Rules = set
	}
	m.cfg.Directories.Default = m.sourceDir
	if err := config.Save(m.cfg, m.cfgPath); err != nil {
		m.statusMsg = errorStyle.Render("Save failed: " + err.Error())
		return
	}
	m.statusMsg = "Config saved to " + m.cfgPath
}

// View implements tea.Model
func (m *Model) View() string {
	var body string
	switch m.state {
	case stateInput:
		body = m.viewInput()
	case stateRules:
		body = m.viewRules()
	case stateResults:
		body = m.viewResults()
	default:
		body = m.viewMenu()
	}
	return appStyle.Render(renderBanner() + "\n" + body)
}

func renderBanner() string {
	return titleStyle.Render(`
	 █████╗ ███████╗████████╗██╗  ██╗███████╗██████╗
	██╔══██╗██╔════╝╚══██╔══╝██║  ██║██╔════╝██╔══██╗
	███████║█████╗     ██║   ███████║█████╗  ██████╔╝
	██╔══██║██╔══╝     ██║   ██╔══██║██╔══╝  ██╔══██╗
	██║  ██║███████╗   ██║   ██║  ██║███████╗██║  ██║
	╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝  S O R T`)
}

func (m *Model) viewMenu() string {
	var sb strings.Builder
	for i, item := range menuItems {
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render(" "+item+" ") + "\n")
		} else {
			sb.WriteString(unselectedStyle.Render("  "+item) + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(fmt.Sprintf("Folder: %s | Prefix: %s", orNotSet(m.sourceDir), m.cfg.Settings.FolderPrefix)))
	if m.statusMsg != "" {
		sb.WriteString("\n" + m.statusMsg)
	}
	sb.WriteString("\n\n" + statusStyle.Render("[↑/k] Up  [↓/j] Down  [Enter] Select  [q] Quit"))

	return frameStyle.Render(sb.String())
}

func (m *Model) viewRules() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(">>> Select Filters <<<") + "\n")

	for i, name := range rules.PresetOrder {
		mark := "[ ]"
		if m.presets[name] {
			mark = "[X]"
		}
		line := mark + " " + name
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render(" "+line+" ") + "\n")
		} else {
			sb.WriteString(unselectedStyle.Render("  "+line) + "\n")
		}
	}

	mark := "[ ]"
	if m.customRegex != "" {
		mark = "[X]"
	}
	customLine := mark + " Custom Regex"
	if m.cursor == len(rules.PresetOrder) {
		sb.WriteString(selectedStyle.Render(" "+customLine+" ") + "\n")
	} else {
		sb.WriteString(unselectedStyle.Render("  "+customLine) + "\n")
	}

	back := "Back"
	if m.cursor == len(rules.PresetOrder)+1 {
		sb.WriteString(selectedStyle.Render(" "+back+" ") + "\n")
	} else {
		sb.WriteString(unselectedStyle.Render("  "+back) + "\n")
	}

	if m.customRegex != "" {
		sb.WriteString("\n" + statusStyle.Render("Regex: "+m.customRegex))
	}

	return frameStyle.Render(sb.String())
}

func (m *Model) viewInput() string {
	return frameStyle.Render(m.input.View() + "\n\n" + statusStyle.Render("[Enter] Accept  [Esc] Cancel"))
}

func (m *Model) viewResults() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Sorting completed!") + "\n")
	sb.WriteString(fmt.Sprintf("Moved:   %d files\n", m.summary.Moved))
	sb.WriteString(fmt.Sprintf("Skipped: %d files\n", m.summary.Skipped))
	sb.WriteString(fmt.Sprintf("Errors:  %d files\n", m.summary.Errors))

	shown := 0
	for _, r := range m.results {
		if shown >= 10 {
			sb.WriteString(fmt.Sprintf("… and %d more\n", len(m.results)-shown))
			break
		}
		if r.Error != nil {
			sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", r.SourcePath, r.Error)) + "\n")
		} else {
			sb.WriteString(fmt.Sprintf("✓ %s → %s\n", r.SourcePath, r.DestinationPath))
		}
		shown++
	}

	sb.WriteString("\n" + statusStyle.Render("Press any key to return"))
	return frameStyle.Render(sb.String())
}

func orNotSet(s string) string {
	if s == "" {
		return "Not set"
	}
	return s
}

// Run starts the terminal interface.
func Run(cfg *config.Config, cfgPath string) error {
	p := tea.NewProgram(New(cfg, cfgPath))
	_, err := p.Run()
	return err
}
