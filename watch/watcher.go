// Package watch reruns generation when input sources change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/jsongen/errors"
	"github.com/teranos/jsongen/logger"
)

// RunFunc is called after a quiet period following relevant changes.
type RunFunc func(ctx context.Context) error

// Watcher watches directory trees for source changes and triggers a
// debounced rerun.
type Watcher struct {
	watcher        *fsnotify.Watcher
	relevant       func(name string) bool
	debouncePeriod time.Duration
	log            *zap.SugaredLogger

	mu            sync.Mutex
	debounceTimer *time.Timer
	pending       chan struct{}
}

// New creates a watcher over the given roots. Files are added by their
// parent directory; directories are added recursively. relevant filters
// base names, so writes of generated companions do not retrigger a run.
func New(roots []string, relevant func(name string) bool, debounce time.Duration, log *zap.SugaredLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	w := &Watcher{
		watcher:        fw,
		relevant:       relevant,
		debouncePeriod: debounce,
		log:            log,
		pending:        make(chan struct{}, 1),
	}

	for _, root := range roots {
		if err := w.addRoot(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "cannot watch %s", root)
	}
	if !info.IsDir() {
		return w.add(filepath.Dir(root))
	}
	return w.addTree(root)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.add(path)
		}
		return nil
	})
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	w.log.Debugw("Watching directory", logger.FieldDir, dir)
	return nil
}

// Run dispatches debounced reruns until ctx is done. Errors from run are
// logged and do not stop watching.
func (w *Watcher) Run(ctx context.Context, run RunFunc) error {
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-w.pending:
			start := time.Now()
			if err := run(ctx); err != nil {
				w.log.Errorw("Regeneration failed", logger.FieldError, err)
				continue
			}
			w.log.Debugw("Regeneration finished", logger.FieldDurationMS, time.Since(start).Milliseconds())
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warnw("Failed to watch new directory", logger.FieldDir, event.Name, logger.FieldError, err)
			}
			return
		}
	}

	if w.relevant != nil && !w.relevant(filepath.Base(event.Name)) {
		return
	}

	w.log.Infow("Source changed", logger.FieldFile, event.Name, logger.FieldAction, event.Op.String())
	w.scheduleRun()
}

// scheduleRun debounces rapid changes into a single rerun
func (w *Watcher) scheduleRun() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		select {
		case w.pending <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
