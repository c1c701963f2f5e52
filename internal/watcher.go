package internal

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher wraps an fsnotify watcher over a gallery root, reporting paths
// of supported image files that appear or change. New subdirectories are
// watched as they are created; reserved directories never are.
type Watcher struct {
	watcher  *fsnotify.Watcher
	exts     extensionSet
	reserved map[string]bool
	events   chan string
	errors   chan error
	done     chan struct{}
}

func NewWatcher(root string, exts []string, reserved []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsWatcher,
		exts:     newExtensionSet(exts),
		reserved: make(map[string]bool, len(reserved)),
		events:   make(chan string, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}
	for _, name := range reserved {
		w.reserved[name] = true
	}

	if err := w.addRecursive(root); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.processEvents()

	return w, nil
}

// addRecursive adds a directory and all its non-reserved subdirectories
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (w.reserved[d.Name()] || isTrashDir(d.Name())) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					// a new directory: watch it and everything already inside
					if !w.reserved[fi.Name()] && !isTrashDir(fi.Name()) && w.addRecursive(event.Name) == nil {
						w.send(event.Name)
					}
					continue
				}
			}

			if !w.exts.match(event.Name) {
				continue
			}
			w.send(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Error channel is full, drop error
			}

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) send(path string) {
	select {
	case w.events <- path:
	default:
		// Event channel is full; one pending event is enough to trigger a run
	}
}

// Events returns the channel of changed image paths
func (w *Watcher) Events() <-chan string {
	return w.events
}

func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and cleans up resources
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// Debounce calls fire once events have been quiet for the quiet interval.
// Events arriving while fire runs, and for one quiet interval after it
// returns, are dropped: they are the echo of fire's own file moves.
// Debounce returns when ctx is done or events is closed.
func Debounce(ctx context.Context, events <-chan string, quiet time.Duration, fire func()) {
	// Stop and Reset leave no stale tick in timer.C (Go 1.23 timers).
	timer := time.NewTimer(quiet)
	timer.Stop()
	var ignoreUntil time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case _, ok := <-events:
			if !ok {
				timer.Stop()
				return
			}
			if time.Now().Before(ignoreUntil) {
				continue
			}
			timer.Reset(quiet)
		case <-timer.C:
			fire()
			ignoreUntil = time.Now().Add(quiet)
		}
	}
}
