// Package sorter implements the dispatch loop: enumerate the files of a
// directory, evaluate each against the ordered rule set, and move the
// first match into its destination folder.
package sorter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"aethersort/internal/config"
	"aethersort/internal/errors"
	"aethersort/internal/log"
	"aethersort/internal/rules"
	"aethersort/pkg/types"

	"github.com/rs/zerolog"
)

// Engine performs rule-driven file dispatch for a single directory at a
// time. It is built from an explicit config object.
type Engine struct {
	ruleSet       rules.Set
	prefix        string
	dryRun        bool
	createDirs    bool
	collision     string
	defaultBucket string
	mu            sync.Mutex // serializes destination probing and renames
	lg            zerolog.Logger
}

// NewWithConfig creates an engine from a configuration. Rules are
// compiled up front; rules whose patterns fail to compile are disabled
// and reported here, never consulted at match time.
func NewWithConfig(cfg *config.Config) *Engine {
	e := &Engine{
		ruleSet:       cfg.Rules,
		prefix:        cfg.Settings.FolderPrefix,
		dryRun:        cfg.Settings.DryRun,
		createDirs:    cfg.Settings.CreateDirs,
		collision:     cfg.Settings.Collision,
		defaultBucket: cfg.Settings.DefaultBucket,
		lg:            log.With("sorter"),
	}

	for _, problem := range cfg.Compile() {
		e.lg.Warn().Err(problem).Msg("rule disabled")
	}

	return e
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// SetPrefix overrides the destination folder prefix for this engine
func (e *Engine) SetPrefix(prefix string) {
	e.prefix = prefix
}

// Rules returns the engine's rule set
func (e *Engine) Rules() rules.Set {
	return e.ruleSet
}

// SortDirectory dispatches every immediate regular file of dir. Per-file
// failures are recorded and processing continues; only an unreadable
// directory is fatal.
func (e *Engine) SortDirectory(dir string) ([]types.SortResult, types.Summary, error) {
	dirInfo, err := os.Stat(dir)
	if err != nil {
		return nil, types.Summary{}, errors.NewFileError("error accessing directory", dir, errors.FileNotFound, err)
	}
	if !dirInfo.IsDir() {
		return nil, types.Summary{}, errors.NewFileError("path is not a directory", dir, errors.InvalidPath, nil)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, types.Summary{}, errors.NewFileError("error reading directory", dir, errors.FileAccessDenied, err)
	}

	now := time.Now()
	var results []types.SortResult
	unmatched := 0

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}

		path := filepath.Join(dir, de.Name())
		info, err := de.Info()
		if err != nil {
			e.lg.Error().Err(err).Str("file", path).Msg("cannot stat file")
			results = append(results, types.SortResult{SourcePath: path, Error: err})
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		entry := types.NewFileEntry(path, info)
		result, matched := e.dispatch(dir, entry, now)
		if !matched {
			unmatched++
			e.lg.Debug().Str("file", path).Msg("no matching rule")
			continue
		}
		results = append(results, result)
	}

	return results, types.Tally(results, unmatched), nil
}

// SortFile dispatches a single file against the rule set. The second
// return value reports whether any rule matched. Used by watch mode.
func (e *Engine) SortFile(path string) (types.SortResult, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.SortResult{}, false, errors.NewFileError("error accessing file", path, errors.FileNotFound, err)
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return types.SortResult{}, false, nil
	}

	entry := types.NewFileEntry(path, info)
	result, matched := e.dispatch(filepath.Dir(path), entry, time.Now())
	return result, matched, nil
}

// dispatch evaluates the entry and performs the move for the first
// matching rule, or routes it to the default bucket when one is set.
func (e *Engine) dispatch(dir string, entry types.FileEntry, now time.Time) (types.SortResult, bool) {
	folder := ""
	ruleName := ""
	if rule := e.ruleSet.Match(entry, now); rule != nil {
		folder = rule.Destination
		ruleName = rule.Label()
	} else if e.defaultBucket != "" {
		folder = e.defaultBucket
		ruleName = "default"
	} else {
		return types.SortResult{}, false
	}

	e.lg.Debug().Str("file", entry.Path).Str("size", entry.HumanSize()).Str("rule", ruleName).Msg("rule matched")

	destPath := filepath.Join(dir, e.prefix+folder, entry.Name())
	result := types.SortResult{
		SourcePath:      entry.Path,
		DestinationPath: destPath,
		RuleName:        ruleName,
	}

	finalDest, err := e.MoveFile(entry.Path, destPath)
	if err != nil {
		result.Error = err
		e.lg.Error().Err(err).Str("source", entry.Path).Msg("move failed")
		return result, true
	}
	if finalDest != "" {
		result.DestinationPath = finalDest
		result.Moved = !e.dryRun
	}

	return result, true
}

// MoveFile moves a file from source to dest, handling collisions per the
// configured strategy. It returns the path the file actually landed at,
// or "" when the move was skipped.
func (e *Engine) MoveFile(src, dest string) (string, error) {
	cleanSrc := filepath.Clean(src)
	cleanDest := filepath.Clean(dest)

	if cleanSrc == cleanDest {
		e.lg.Debug().Str("file", src).Msg("source and destination identical, skipping")
		return "", nil
	}

	srcInfo, err := os.Stat(cleanSrc)
	if err != nil {
		return "", errors.NewFileError("source file error", cleanSrc, errors.FileNotFound, err)
	}
	if srcInfo.IsDir() {
		return "", errors.NewFileError("cannot move directory as file", cleanSrc, errors.InvalidPath, nil)
	}

	destDir := filepath.Dir(cleanDest)
	if e.dryRun {
		// Resolve the collision anyway so the preview names the path a
		// real run would pick. This only stats, nothing is created.
		finalDest, err := e.handleCollision(cleanSrc, cleanDest)
		if err != nil {
			return "", err
		}
		if finalDest == "" {
			return "", nil
		}
		e.lg.Info().Str("source", cleanSrc).Str("destination", finalDest).Msg("would move")
		return finalDest, nil
	}

	if e.createDirs {
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return "", errors.NewFileError("failed to create destination directory", destDir, errors.MoveFailed, err)
		}
	} else if _, err := os.Stat(destDir); err != nil {
		return "", errors.NewFileError("destination directory unavailable", destDir, errors.MoveFailed, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	finalDest, err := e.handleCollision(cleanSrc, cleanDest)
	if err != nil {
		return "", err
	}
	if finalDest == "" {
		// Collision strategy decided to skip
		return "", nil
	}

	if err := os.Rename(cleanSrc, finalDest); err != nil {
		return "", errors.NewFileError("failed to move file", cleanSrc, errors.MoveFailed, err)
	}

	e.lg.Info().Str("source", cleanSrc).Str("destination", finalDest).Msg("moved")
	return finalDest, nil
}

// handleCollision implements the collision strategies. It returns the
// final destination path, or "" when the move should be skipped.
func (e *Engine) handleCollision(src, dest string) (string, error) {
	_, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return dest, nil
	}
	if err != nil {
		return "", errors.NewFileError("error checking destination", dest, errors.MoveFailed, err)
	}

	switch e.collision {
	case config.CollisionSkip:
		e.lg.Info().Str("source", src).Str("destination", dest).Msg("skipped, destination exists")
		return "", nil

	case config.CollisionOverwrite:
		e.lg.Warn().Str("destination", dest).Msg("overwriting existing file")
		return dest, nil

	case config.CollisionRename:
		return e.findUniqueDestName(dest)

	default:
		return "", errors.NewConfigError("unknown collision strategy", e.collision, errors.InvalidConfig, nil)
	}
}

// findUniqueDestName finds an unused name by appending a numeric suffix
// to the basename.
func (e *Engine) findUniqueDestName(originalPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= 1000; counter++ {
		candidate := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	return "", errors.NewFileError("failed to find unique name after 1000 attempts", originalPath, errors.MoveFailed, nil)
}
