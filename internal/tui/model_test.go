package tui

import (
	"path/filepath"
	"testing"

	"aethersort/internal/config"
	"aethersort/internal/rules"
	"aethersort/pkg/testutils"

	alsrt "github.com/alecthomas/assert"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.New()
	cfg.Settings.FolderPrefix = ""
	return New(cfg, filepath.Join(t.TempDir(), "config.json"))
}

func TestMenuNavigation(t *testing.T) {
	m := testModel(t)

	alsrt.Equal(t, 0, m.cursor)

	m.Update(key("j"))
	alsrt.Equal(t, 1, m.cursor)

	m.Update(key("k"))
	m.Update(key("k"))
	alsrt.Equal(t, len(menuItems)-1, m.cursor, "navigation wraps around")
}

func TestMenuQuit(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRuleToggle(t *testing.T) {
	m := testModel(t)
	m.state = stateRules

	m.Update(key(" "))
	alsrt.True(t, m.presets["Images"])

	m.Update(key(" "))
	alsrt.False(t, m.presets["Images"], "toggling twice clears the selection")
}

func TestSelectedRulesKeepDisplayOrder(t *testing.T) {
	m := testModel(t)
	m.presets["RecentFiles"] = true
	m.presets["Images"] = true
	m.customRegex = `.*\.bak$`

	set := m.selectedRules()
	require.Len(t, set, 3)
	assert.Equal(t, "Images", set[0].Name)
	assert.Equal(t, "RecentFiles", set[1].Name)
	assert.Equal(t, rules.Regex, set[2].Kind)
	assert.Equal(t, "Backups", set[2].Destination)
}

func TestPrefixInput(t *testing.T) {
	m := testModel(t)
	m.beginInput(inputPrefix, "Folder prefix", "")
	alsrt.Equal(t, stateInput, m.state)

	m.input.SetValue("SORT_")
	m.Update(key("enter"))

	alsrt.Equal(t, stateMenu, m.state)
	alsrt.Equal(t, "SORT_", m.cfg.Settings.FolderPrefix)
}

func TestInvalidFolderRejected(t *testing.T) {
	m := testModel(t)
	before := m.sourceDir

	m.beginInput(inputFolder, "Folder to sort", "")
	m.input.SetValue(filepath.Join(t.TempDir(), "does-not-exist"))
	m.Update(key("enter"))

	alsrt.Equal(t, before, m.sourceDir, "invalid directory must not be accepted")
}

func TestInvalidRegexRejected(t *testing.T) {
	m := testModel(t)

	m.beginInput(inputRegex, "Regex pattern", "")
	m.input.SetValue("([bad")
	m.Update(key("enter"))

	alsrt.Equal(t, "", m.customRegex)
	alsrt.Equal(t, stateRules, m.state)
}

func TestRunSortMovesFiles(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateFilesWithContent(t, dir, map[string]string{
		"photo.jpg": "jpg",
		"song.mp3":  "audio",
	})

	m := testModel(t)
	m.sourceDir = dir
	m.presets["Images"] = true

	m.runSort()

	alsrt.Equal(t, stateResults, m.state)
	alsrt.Equal(t, 1, m.summary.Moved)
	alsrt.Equal(t, 1, m.summary.Skipped)
	testutils.FileExists(t, filepath.Join(dir, "Images", "photo.jpg"))

	view := m.View()
	assert.Contains(t, view, "Sorting completed!")
	assert.Contains(t, view, "Moved:   1")
}

func TestRunSortWithoutRules(t *testing.T) {
	m := testModel(t)
	m.sourceDir = t.TempDir()

	m.runSort()

	alsrt.Equal(t, stateMenu, m.state, "stays on the menu when nothing is selected")
	assert.Contains(t, m.statusMsg, "No filters selected")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	m := testModel(t)
	m.presets["Documents"] = true
	m.sourceDir = t.TempDir()

	m.saveConfig()

	loaded, err := config.LoadFile(m.cfgPath)
	require.NoError(t, err)
	require.Len(t, loaded.Rules, 1)
	assert.Equal(t, "Documents", loaded.Rules[0].Name)
	assert.Equal(t, m.sourceDir, loaded.Directories.Default)
}
