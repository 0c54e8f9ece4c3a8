// Package watch monitors directories with fsnotify and dispatches newly
// created or written files through the sorter engine.
package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"aethersort/internal/log"
	"aethersort/internal/sorter"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// settleDelay gives a newly created file a moment to finish writing
// before it is dispatched.
const settleDelay = 500 * time.Millisecond

// Watcher monitors directories for file changes and feeds them to the
// engine one at a time.
type Watcher struct {
	engine      *sorter.Engine
	fsWatcher   *fsnotify.Watcher
	directories []string
	stopChan    chan struct{}
	doneChan    chan struct{}

	mutex   sync.RWMutex
	running bool

	processed int
	lg        zerolog.Logger

	// Callback invoked after each dispatch attempt, nil-safe
	callback func(source, dest string, err error)
}

// New creates a watcher that dispatches through the given engine.
func New(engine *sorter.Engine) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		engine:    engine,
		fsWatcher: fsWatcher,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
		lg:        log.With("watch"),
	}, nil
}

// SetCallback registers a function invoked after every dispatch attempt.
func (w *Watcher) SetCallback(cb func(source, dest string, err error)) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.callback = cb
}

// AddDirectory adds a directory to the watch list.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	for _, existing := range w.directories {
		if existing == dir {
			return nil
		}
	}
	w.directories = append(w.directories, dir)
	w.lg.Info().Str("directory", dir).Msg("watching directory")
	return nil
}

// Directories returns the directories being watched.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}

// Processed returns the number of files dispatched so far.
func (w *Watcher) Processed() int {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.processed
}

// Running reports whether the event loop is active.
func (w *Watcher) Running() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Start begins the event loop. Files created or written in a watched
// directory are dispatched through the engine after a settle delay.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	if len(w.directories) == 0 {
		w.mutex.Unlock()
		return fmt.Errorf("no directories to watch")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.doneChan = make(chan struct{})
	w.mutex.Unlock()

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.doneChan)
	w.lg.Debug().Msg("watcher event loop started")

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			w.handleEvent(event.Name)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.lg.Error().Err(err).Msg("watcher error")

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleEvent(path string) {
	// The file may still be mid-write, or already gone again
	time.Sleep(settleDelay)

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.lg.Error().Err(err).Str("file", path).Msg("error stating file")
		}
		return
	}
	if info.IsDir() {
		return
	}

	result, matched, err := w.engine.SortFile(path)
	if err != nil {
		w.lg.Error().Err(err).Str("file", path).Msg("dispatch failed")
		w.notify(path, "", err)
		return
	}
	if !matched {
		return
	}

	w.mutex.Lock()
	w.processed++
	w.mutex.Unlock()
	w.notify(result.SourcePath, result.DestinationPath, result.Error)
}

func (w *Watcher) notify(source, dest string, err error) {
	w.mutex.RLock()
	cb := w.callback
	w.mutex.RUnlock()
	if cb != nil {
		cb(source, dest, err)
	}
}

// Stop halts the event loop and releases the fsnotify watcher.
func (w *Watcher) Stop() error {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		// Never started, or already stopped: still release the fsnotify
		// handle. Close tolerates being called more than once.
		return w.fsWatcher.Close()
	}
	w.running = false
	close(w.stopChan)
	w.mutex.Unlock()

	<-w.doneChan
	return w.fsWatcher.Close()
}
