package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher watches an ontology source file for changes
type Watcher struct {
	path     string
	onChange func(path string)
	debounce time.Duration
	logger   logrus.FieldLogger

	readyOnce sync.Once
	ready     chan struct{}
}

// New creates a new file watcher
func New(path string, onChange func(path string), logger logrus.FieldLogger) *Watcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		logger:   logger.WithField("path", path),
		ready:    make(chan struct{}),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Ready is closed once the watch is established
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Watch starts watching the file for changes.
// It blocks until the context is cancelled or an error occurs.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory containing the file so that editors replacing the
	// file are still seen
	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	w.logger.WithField("action", "watch_start").Info("watching ontology source for changes")
	w.readyOnce.Do(func() { close(w.ready) })

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			eventPath, err := filepath.Abs(event.Name)
			if err != nil || eventPath != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid changes: only the last event of a burst fires
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				w.logger.WithField("action", "watch_change").Info("ontology source changed")
				w.onChange(w.path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithField("action", "watch_error").WithError(err).Warn("file watcher error")

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
