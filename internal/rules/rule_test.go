package rules_test

import (
	"testing"
	"time"

	"aethersort/internal/errors"
	"aethersort/internal/rules"
	"aethersort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(name string, size int64, mod time.Time) types.FileEntry {
	return types.FileEntry{Path: "/tmp/" + name, Size: size, ModTime: mod}
}

func compiled(t *testing.T, r *rules.Rule) *rules.Rule {
	t.Helper()
	require.NoError(t, r.Validate())
	require.NoError(t, r.Compile())
	return r
}

func TestExtensionRule(t *testing.T) {
	now := time.Now()
	r := compiled(t, &rules.Rule{
		Kind:        rules.Extension,
		Extensions:  []string{".jpg", "png"}, // leading dot optional
		Destination: "Images",
	})

	assert.True(t, r.Matches(entry("photo.jpg", 10, now), now))
	assert.True(t, r.Matches(entry("PHOTO.JPG", 10, now), now), "extension match is case-insensitive")
	assert.True(t, r.Matches(entry("shot.png", 10, now), now))
	assert.False(t, r.Matches(entry("notes.txt", 10, now), now))
	assert.False(t, r.Matches(entry("jpg", 10, now), now), "bare name without extension")
}

func TestSizeRule(t *testing.T) {
	now := time.Now()

	t.Run("minimum only", func(t *testing.T) {
		r := compiled(t, &rules.Rule{Kind: rules.Size, MinSize: "10MB", Destination: "LargeFiles"})
		assert.True(t, r.Matches(entry("big.bin", 50*1000*1000, now), now))
		assert.True(t, r.Matches(entry("exact.bin", 10*1000*1000, now), now), "range is inclusive")
		assert.False(t, r.Matches(entry("small.bin", 1024, now), now))
	})

	t.Run("bounded range", func(t *testing.T) {
		r := compiled(t, &rules.Rule{Kind: rules.Size, MinSize: "1KB", MaxSize: "1MB", Destination: "Medium"})
		assert.True(t, r.Matches(entry("mid.bin", 500*1000, now), now))
		assert.False(t, r.Matches(entry("big.bin", 5*1000*1000, now), now))
		assert.False(t, r.Matches(entry("tiny.bin", 10, now), now))
	})

	t.Run("missing bounds rejected", func(t *testing.T) {
		r := &rules.Rule{Kind: rules.Size, Destination: "X"}
		err := r.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsInvalidRule(err))
	})

	t.Run("recompile drops cleared bounds", func(t *testing.T) {
		r := compiled(t, &rules.Rule{Kind: rules.Size, MinSize: "10MB", MaxSize: "1GB", Destination: "LargeFiles"})
		assert.False(t, r.Matches(entry("small.bin", 1024, now), now))

		r.MinSize = ""
		require.NoError(t, r.Compile())
		assert.True(t, r.Matches(entry("small.bin", 1024, now), now), "stale lower bound must not survive")

		r.MaxSize = ""
		r.MinSize = "10MB"
		require.NoError(t, r.Compile())
		assert.True(t, r.Matches(entry("huge.bin", 5*1000*1000*1000, now), now))
	})
}

func TestDateRule(t *testing.T) {
	now := time.Now()

	t.Run("within days", func(t *testing.T) {
		r := compiled(t, &rules.Rule{Kind: rules.Date, WithinDays: 7, Destination: "RecentFiles"})
		assert.True(t, r.Matches(entry("new.txt", 1, now.Add(-24*time.Hour)), now))
		assert.False(t, r.Matches(entry("old.txt", 1, now.Add(-30*24*time.Hour)), now))
	})

	t.Run("explicit window", func(t *testing.T) {
		r := compiled(t, &rules.Rule{
			Kind:        rules.Date,
			After:       "2024-01-01",
			Before:      "2024-12-31",
			Destination: "Archive2024",
		})
		in := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		out := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, r.Matches(entry("a.txt", 1, in), now))
		assert.False(t, r.Matches(entry("b.txt", 1, out), now))
	})
}

func TestRegexRule(t *testing.T) {
	now := time.Now()
	r := compiled(t, &rules.Rule{Kind: rules.Regex, Pattern: `.*\.bak$`, Destination: "Backups"})

	assert.True(t, r.Matches(entry("db.bak", 1, now), now))
	assert.True(t, r.Matches(entry("DB.BAK", 1, now), now), "regex match is case-insensitive")
	assert.False(t, r.Matches(entry("db.bak.old", 1, now), now))
}

func TestGlobRule(t *testing.T) {
	now := time.Now()
	r := compiled(t, &rules.Rule{Kind: rules.Glob, Pattern: "report_*.pdf", Destination: "Reports"})

	assert.True(t, r.Matches(entry("report_2024.pdf", 1, now), now))
	assert.False(t, r.Matches(entry("summary.pdf", 1, now), now))
}

func TestMalformedPatternDisablesRule(t *testing.T) {
	r := &rules.Rule{Kind: rules.Regex, Pattern: `([unclosed`, Destination: "Backups"}
	require.NoError(t, r.Validate(), "structure is fine, only the pattern is bad")

	err := r.Compile()
	require.Error(t, err)
	assert.True(t, errors.IsPatternCompile(err))
	assert.True(t, r.Disabled())
	assert.False(t, r.Matches(entry("anything.bak", 1, time.Now()), time.Now()), "disabled rule never matches")
}

func TestDestinationValidation(t *testing.T) {
	cases := []struct {
		dest string
		ok   bool
	}{
		{"Images", true},
		{"My Stuff", true},
		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
	}

	for _, tc := range cases {
		r := &rules.Rule{Kind: rules.Extension, Extensions: []string{".x"}, Destination: tc.dest}
		err := r.Validate()
		if tc.ok {
			assert.NoError(t, err, "destination %q", tc.dest)
		} else {
			assert.Error(t, err, "destination %q", tc.dest)
		}
	}
}

func TestSetFirstMatchWins(t *testing.T) {
	now := time.Now()
	set := rules.Set{
		{Name: "large", Kind: rules.Size, MinSize: "10MB", Destination: "LargeFiles"},
		{Name: "pdf", Kind: rules.Extension, Extensions: []string{".pdf"}, Destination: "Documents"},
	}
	require.NoError(t, set.Validate())
	require.Empty(t, set.Compile())

	// A 50MB pdf matches both rules; the size rule is first, so it wins
	winner := set.Match(entry("report.pdf", 50*1000*1000, now), now)
	require.NotNil(t, winner)
	assert.Equal(t, "large", winner.Name)

	// A small pdf falls through to the extension rule
	winner = set.Match(entry("note.pdf", 1024, now), now)
	require.NotNil(t, winner)
	assert.Equal(t, "pdf", winner.Name)

	// No rule matches
	assert.Nil(t, set.Match(entry("song.mp3", 1024, now), now))
}

func TestSetCompileCollectsProblems(t *testing.T) {
	set := rules.Set{
		{Kind: rules.Regex, Pattern: `good.*`, Destination: "A"},
		{Kind: rules.Regex, Pattern: `([bad`, Destination: "B"},
		{Kind: rules.Glob, Pattern: "[", Destination: "C"},
	}

	problems := set.Compile()
	assert.Len(t, problems, 2)
	assert.Equal(t, 1, set.Enabled())
}

func TestPresets(t *testing.T) {
	presets := rules.Presets()
	assert.Len(t, rules.PresetOrder, len(presets))
	for _, name := range rules.PresetOrder {
		r, ok := presets[name]
		require.True(t, ok, "preset %s missing", name)
		require.NoError(t, r.Validate())
		require.NoError(t, r.Compile())
	}
}
