package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"aethersort/internal/config"
	"aethersort/internal/rules"
	"aethersort/internal/sorter"
	"aethersort/internal/watch"
	"aethersort/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *sorter.Engine {
	cfg := config.New()
	cfg.Settings.FolderPrefix = ""
	cfg.Rules = rules.Set{
		{Kind: rules.Extension, Extensions: []string{".jpg"}, Destination: "Images"},
	}
	return sorter.NewWithConfig(cfg)
}

func TestAddDirectoryValidation(t *testing.T) {
	w, err := watch.New(newTestEngine())
	require.NoError(t, err)
	defer w.Stop()

	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, w.AddDirectory(dir))
		assert.Contains(t, w.Directories(), dir)
	})

	t.Run("missing directory", func(t *testing.T) {
		assert.Error(t, w.AddDirectory(filepath.Join(t.TempDir(), "missing")))
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		testutils.CreateFilesWithContent(t, dir, map[string]string{"f.txt": "x"})
		assert.Error(t, w.AddDirectory(filepath.Join(dir, "f.txt")))
	})
}

func TestStartRequiresDirectories(t *testing.T) {
	w, err := watch.New(newTestEngine())
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start())
}

func TestNewFileIsDispatched(t *testing.T) {
	dir := t.TempDir()

	w, err := watch.New(newTestEngine())
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(dir))

	done := make(chan struct{}, 1)
	w.SetCallback(func(source, dest string, err error) {
		assert.NoError(t, err)
		done <- struct{}{}
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("jpg"), 0644))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("file was not dispatched in time")
	}

	testutils.FileExists(t, filepath.Join(dir, "Images", "photo.jpg"))
	assert.Equal(t, 1, w.Processed())
}

func TestUnmatchedFileLeftAlone(t *testing.T) {
	dir := t.TempDir()

	w, err := watch.New(newTestEngine())
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("audio"), 0644))

	// Give the watcher time to see and settle the event
	time.Sleep(1500 * time.Millisecond)

	testutils.FileExists(t, filepath.Join(dir, "song.mp3"))
	assert.Equal(t, 0, w.Processed())
}

func TestStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	w, err := watch.New(newTestEngine())
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.False(t, w.Running())
}

func TestStopWithoutStartReleasesWatcher(t *testing.T) {
	w, err := watch.New(newTestEngine())
	require.NoError(t, err)

	require.NoError(t, w.Stop())

	// The underlying fsnotify watcher is closed, so new watches fail
	assert.Error(t, w.AddDirectory(t.TempDir()))
}
