package rules

import (
	"time"

	"aethersort/pkg/types"
)

// Set is an ordered sequence of rules. Order determines precedence:
// the first matching rule wins.
type Set []*Rule

// Validate checks every rule's structure. The first invalid rule aborts.
func (s Set) Validate() error {
	for _, r := range s {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Compile prepares every rule for matching. Rules whose patterns fail to
// compile are disabled and their errors collected; compilation continues
// so one bad rule doesn't take the rest of the set down.
func (s Set) Compile() []error {
	var problems []error
	for _, r := range s {
		if err := r.Compile(); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}

// Match returns the first enabled rule the entry satisfies, or nil.
func (s Set) Match(entry types.FileEntry, now time.Time) *Rule {
	for _, r := range s {
		if r.Matches(entry, now) {
			return r
		}
	}
	return nil
}

// Enabled returns the number of rules that survived compilation.
func (s Set) Enabled() int {
	n := 0
	for _, r := range s {
		if !r.Disabled() {
			n++
		}
	}
	return n
}

// Presets returns the built-in rule set offered by the interactive
// surfaces: images, documents, large files, and recent files.
func Presets() map[string]*Rule {
	return map[string]*Rule{
		"Images": {
			Name:        "Images",
			Kind:        Extension,
			Extensions:  []string{".jpg", ".jpeg", ".png", ".gif"},
			Destination: "Images",
		},
		"Documents": {
			Name:        "Documents",
			Kind:        Extension,
			Extensions:  []string{".pdf", ".doc", ".docx", ".txt"},
			Destination: "Documents",
		},
		"LargeFiles": {
			Name:        "LargeFiles",
			Kind:        Size,
			MinSize:     "10MB",
			Destination: "LargeFiles",
		},
		"RecentFiles": {
			Name:        "RecentFiles",
			Kind:        Date,
			WithinDays:  7,
			Destination: "RecentFiles",
		},
	}
}

// PresetOrder is the stable display order for Presets.
var PresetOrder = []string{"Images", "Documents", "LargeFiles", "RecentFiles"}
