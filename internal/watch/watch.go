// Package watch triggers feed rebuilds when the book directory changes.
// Rebuilds are debounced and run one at a time; the pipeline itself stays
// strictly sequential.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a directory tree and invokes a rebuild callback after
// events settle.
type Watcher struct {
	root    string
	ignore  map[string]struct{}
	rebuild func() error
	watcher *fsnotify.Watcher
	logger  *log.Logger

	timerMu sync.Mutex
	timer   *time.Timer
	delay   time.Duration

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New starts watching root recursively. Events on the ignored base names
// (the generated feed and settings files, to keep our own writes from
// retriggering a rebuild) are dropped.
func New(root string, ignore []string, delay time.Duration, rebuild func() error, logger *log.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	w := &Watcher{
		root:    root,
		ignore:  make(map[string]struct{}, len(ignore)),
		rebuild: rebuild,
		watcher: fsWatcher,
		logger:  logger,
		delay:   delay,
		done:    make(chan struct{}),
	}
	for _, name := range ignore {
		w.ignore[name] = struct{}{}
	}

	w.addWatchRecursive(root)

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)

		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.timerMu.Unlock()

		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if _, skip := w.ignore[filepath.Base(event.Name)]; skip {
		return
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addWatchRecursive(event.Name)
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.scheduleRebuild()
	}
}

func (w *Watcher) scheduleRebuild() {
	select {
	case <-w.done:
		return
	default:
	}

	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(w.delay, func() {
		if err := w.rebuild(); err != nil {
			w.logger.Printf("rebuild error: %v", err)
		}

		w.timerMu.Lock()
		if w.timer == timer {
			w.timer = nil
		}
		w.timerMu.Unlock()
	})

	w.timer = timer
}

func (w *Watcher) addWatchRecursive(path string) {
	filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Printf("walk error for %s: %v", p, err)
			return nil
		}

		if d.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				w.logger.Printf("watcher add failure for %s: %v", p, err)
			}
		}
		return nil
	})
}
