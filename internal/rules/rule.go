// Package rules implements the filter rules that decide where a file
// belongs. A rule pairs a predicate (extension set, size range, date
// window, regex, or glob) with a destination folder name. Rules are
// evaluated in order; the first match wins.
package rules

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"aethersort/internal/errors"
	"aethersort/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
)

// Kind identifies the predicate a rule evaluates
type Kind string

const (
	// Extension matches on case-insensitive suffix membership
	Extension Kind = "extension"
	// Size matches byte size within an inclusive range
	Size Kind = "size"
	// Date matches modification time within an inclusive window
	Date Kind = "date"
	// Regex matches the base filename against a compiled pattern
	Regex Kind = "regex"
	// Glob matches the base filename against a glob pattern
	Glob Kind = "glob"
)

// Rule defines a single filter predicate and its destination folder.
// Parameter fields are populated according to Kind; the rest stay zero.
type Rule struct {
	Name        string   `json:"name,omitempty"`
	Kind        Kind     `json:"kind"`
	Extensions  []string `json:"extensions,omitempty"`  // extension kind
	MinSize     string   `json:"min_size,omitempty"`    // size kind, human units ("10MB")
	MaxSize     string   `json:"max_size,omitempty"`    // size kind
	After       string   `json:"after,omitempty"`       // date kind, RFC3339 or 2006-01-02
	Before      string   `json:"before,omitempty"`      // date kind
	WithinDays  int      `json:"within_days,omitempty"` // date kind shorthand
	Pattern     string   `json:"pattern,omitempty"`     // regex and glob kinds
	Destination string   `json:"destination"`

	// Compiled state, populated by Compile. A rule whose pattern fails to
	// compile is disabled and never consulted at match time.
	minBytes uint64
	maxBytes uint64
	after    time.Time
	before   time.Time
	re       *regexp.Regexp
	g        glob.Glob
	compiled bool
	disabled bool
}

// dateLayouts accepted for the after/before bounds
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Validate checks the rule's structure: known kind, valid destination,
// and parameters present for the kind. Pattern compilation is handled
// separately by Compile so a bad pattern disables the rule instead of
// aborting the whole configuration load.
func (r *Rule) Validate() error {
	if err := validateDestination(r.Destination); err != nil {
		return err
	}

	switch r.Kind {
	case Extension:
		if len(r.Extensions) == 0 {
			return errors.NewRuleError("extension rule needs at least one extension", r.Label(), errors.InvalidRule, nil)
		}
	case Size:
		if r.MinSize == "" && r.MaxSize == "" {
			return errors.NewRuleError("size rule needs min_size or max_size", r.Label(), errors.InvalidRule, nil)
		}
		if r.MinSize != "" {
			if _, err := humanize.ParseBytes(r.MinSize); err != nil {
				return errors.NewRuleError("invalid min_size", r.Label(), errors.InvalidRule, err)
			}
		}
		if r.MaxSize != "" {
			if _, err := humanize.ParseBytes(r.MaxSize); err != nil {
				return errors.NewRuleError("invalid max_size", r.Label(), errors.InvalidRule, err)
			}
		}
	case Date:
		if r.WithinDays <= 0 && r.After == "" && r.Before == "" {
			return errors.NewRuleError("date rule needs within_days, after, or before", r.Label(), errors.InvalidRule, nil)
		}
		if r.After != "" {
			if _, err := parseDate(r.After); err != nil {
				return errors.NewRuleError("invalid after date", r.Label(), errors.InvalidRule, err)
			}
		}
		if r.Before != "" {
			if _, err := parseDate(r.Before); err != nil {
				return errors.NewRuleError("invalid before date", r.Label(), errors.InvalidRule, err)
			}
		}
	case Regex, Glob:
		if r.Pattern == "" {
			return errors.NewRuleError("pattern is required", r.Label(), errors.InvalidRule, nil)
		}
	default:
		return errors.NewRuleError("unknown rule kind", string(r.Kind), errors.InvalidRule, nil)
	}

	return nil
}

// Compile prepares the rule for matching. Pattern compilation errors
// disable the rule and are returned for reporting.
func (r *Rule) Compile() error {
	r.compiled = false
	r.disabled = false

	switch r.Kind {
	case Size:
		r.minBytes, r.maxBytes = 0, 0
		if r.MinSize != "" {
			n, err := humanize.ParseBytes(r.MinSize)
			if err != nil {
				return r.disable("invalid min_size", err)
			}
			r.minBytes = n
		}
		if r.MaxSize != "" {
			n, err := humanize.ParseBytes(r.MaxSize)
			if err != nil {
				return r.disable("invalid max_size", err)
			}
			r.maxBytes = n
		}
	case Date:
		r.after, r.before = time.Time{}, time.Time{}
		if r.After != "" {
			t, err := parseDate(r.After)
			if err != nil {
				return r.disable("invalid after date", err)
			}
			r.after = t
		}
		if r.Before != "" {
			t, err := parseDate(r.Before)
			if err != nil {
				return r.disable("invalid before date", err)
			}
			r.before = t
		}
	case Regex:
		// Case-insensitive, unanchored search over the base filename
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return r.disable("regex does not compile", err)
		}
		r.re = re
	case Glob:
		g, err := glob.Compile(r.Pattern)
		if err != nil {
			return r.disable("glob does not compile", err)
		}
		r.g = g
	}

	r.compiled = true
	return nil
}

func (r *Rule) disable(msg string, err error) error {
	r.disabled = true
	return errors.NewRuleError(msg, r.Label(), errors.PatternCompileFailed, err)
}

// Disabled reports whether the rule was disabled at compile time
func (r *Rule) Disabled() bool {
	return r.disabled
}

// Matches reports whether the entry satisfies the rule's predicate.
// The reference time is passed in so date windows are stable across a run.
func (r *Rule) Matches(entry types.FileEntry, now time.Time) bool {
	if r.disabled || !r.compiled {
		return false
	}

	switch r.Kind {
	case Extension:
		ext := strings.ToLower(entry.Ext())
		for _, want := range r.Extensions {
			if ext == normalizeExt(want) {
				return true
			}
		}
		return false

	case Size:
		size := uint64(entry.Size)
		if size < r.minBytes {
			return false
		}
		if r.MaxSize != "" && size > r.maxBytes {
			return false
		}
		return true

	case Date:
		mod := entry.ModTime
		if r.WithinDays > 0 {
			cutoff := now.AddDate(0, 0, -r.WithinDays)
			if mod.Before(cutoff) {
				return false
			}
		}
		if !r.after.IsZero() && mod.Before(r.after) {
			return false
		}
		if !r.before.IsZero() && mod.After(r.before) {
			return false
		}
		return true

	case Regex:
		return r.re.MatchString(entry.Name())

	case Glob:
		return r.g.Match(entry.Name())
	}

	return false
}

// Label returns a display name for the rule, falling back to a
// kind→destination description when no name is set.
func (r *Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return string(r.Kind) + "→" + r.Destination
}

// validateDestination ensures the destination is a single relative path
// segment: non-empty, no separators, not "." or "..".
func validateDestination(dest string) error {
	if dest == "" {
		return errors.NewRuleError("destination is required", "", errors.InvalidRule, nil)
	}
	if dest == "." || dest == ".." {
		return errors.NewRuleError("destination cannot be a dot path", dest, errors.InvalidRule, nil)
	}
	if strings.ContainsRune(dest, '/') || strings.ContainsRune(dest, filepath.Separator) {
		return errors.NewRuleError("destination must be a single folder name", dest, errors.InvalidRule, nil)
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
