// Package watch reports saves of part documents. Editors often replace a
// file instead of writing it in place, so the parent directories are
// watched and events are filtered down to the documents of interest.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before it is reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors a set of files and emits each changed path once its
// events have settled.
type Watcher struct {
	Changes <-chan string // Read-only external channel

	changes  chan string // Internal write channel
	done     chan struct{}
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for files. A non-positive debounce uses
// DefaultDebounce; a nil logger uses slog.Default().
func New(files []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{
		done:     make(chan struct{}),
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		debounce: debounce,
		logger:   logger,
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		w.dirs[filepath.Dir(abs)] = struct{}{}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	ch := make(chan string, 16)
	w.Changes = ch
	w.changes = ch
	w.watcher = fw
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	for dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch: %s: %w", dir, err)
		}
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.changes <- file
				}
				return
			}
			name := filepath.Clean(event.Name)
			if _, ok := w.files[name]; !ok {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending[name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= w.debounce {
					w.changes <- file
					delete(pending, file)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}
