package watch

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherTriggersRebuild(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int64
	w := newTestWatcher(t, root, nil, &rebuilds)
	t.Cleanup(func() {
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})

	writeFile(t, filepath.Join(root, "01.mp3"))
	waitFor(t, func() bool { return rebuilds.Load() >= 1 }, "rebuild after create")
}

func TestWatcherCoversNewSubdirectories(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int64
	w := newTestWatcher(t, root, nil, &rebuilds)
	t.Cleanup(func() { _ = w.Close() })

	sub := filepath.Join(root, "disc2")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	time.Sleep(150 * time.Millisecond)

	before := rebuilds.Load()
	writeFile(t, filepath.Join(sub, "05.mp3"))
	waitFor(t, func() bool { return rebuilds.Load() > before }, "rebuild for nested file")
}

func TestWatcherIgnoresGeneratedFiles(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int64
	w := newTestWatcher(t, root, []string{"playlist.rss"}, &rebuilds)
	t.Cleanup(func() { _ = w.Close() })

	writeFile(t, filepath.Join(root, "playlist.rss"))
	time.Sleep(200 * time.Millisecond)

	if rebuilds.Load() != 0 {
		t.Fatalf("expected no rebuild for ignored file, got %d", rebuilds.Load())
	}
}

func TestWatcherCoalescesBurstsOfEvents(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int64
	logger := log.New(io.Discard, "", 0)
	w, err := New(root, nil, 250*time.Millisecond, func() error {
		rebuilds.Add(1)
		return nil
	}, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	// A burst of changes inside one debounce window must produce a single
	// rebuild once events settle.
	for _, name := range []string{"01.mp3", "02.mp3", "03.mp3"} {
		writeFile(t, filepath.Join(root, name))
	}

	waitFor(t, func() bool { return rebuilds.Load() >= 1 }, "debounced rebuild")
	time.Sleep(400 * time.Millisecond)

	if got := rebuilds.Load(); got != 1 {
		t.Fatalf("expected burst to coalesce into 1 rebuild, got %d", got)
	}
}

func TestWatcherCloseStopsPendingRebuild(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int64
	logger := log.New(io.Discard, "", 0)
	w, err := New(root, nil, time.Second, func() error {
		rebuilds.Add(1)
		return nil
	}, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	writeFile(t, filepath.Join(root, "01.mp3"))
	time.Sleep(50 * time.Millisecond)

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if rebuilds.Load() != 0 {
		t.Fatalf("expected pending rebuild to be cancelled on close, got %d", rebuilds.Load())
	}
}

func newTestWatcher(t *testing.T, root string, ignore []string, rebuilds *atomic.Int64) *Watcher {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	w, err := New(root, ignore, 10*time.Millisecond, func() error {
		rebuilds.Add(1)
		return nil
	}, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func waitFor(t *testing.T, predicate func() bool, label string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if predicate() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", label)
}
