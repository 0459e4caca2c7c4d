package snapshot

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/logfields"
)

// Watcher calls a function after changes below a directory tree settle.
// Bursts of events within the debounce window produce a single call.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(context.Context)
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	mu        sync.Mutex
	timer     *time.Timer
	closeOnce sync.Once
	closeErr  error
}

// NewWatcher watches root and every non-hidden directory below it.
func NewWatcher(root string, debounce time.Duration, onChange func(context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, pierrors.FileSystemError("create watcher", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		_ = fsw.Close()
		return nil, pierrors.FileSystemError("resolve content dir", err).WithContext("path", root)
	}

	w := &Watcher{
		root:     absRoot,
		debounce: debounce,
		onChange: onChange,
		fsw:      fsw,
		logger:   slog.Default(),
	}
	if err := w.addTree(absRoot); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run dispatches events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("Watching content", logfields.Path(w.root), slog.Duration("debounce", w.debounce))
	defer func() {
		if err := w.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Content watcher error", logfields.Error(err))
		}
	}
}

// Close drops any pending debounced call and releases the fsnotify watcher.
// Run returns once the watcher is closed. Calling Close again is a no-op.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		w.closeErr = w.fsw.Close()
	})
	return w.closeErr
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod || hiddenBelow(w.root, ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if err := w.addTree(ev.Name); err != nil {
			w.logger.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
		}
	}
	w.logger.Debug("Content change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.schedule(ctx)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.onChange(ctx)
	})
}

// addTree registers dir and its non-hidden subdirectories. Non-directories
// are ignored.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && isHiddenName(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
	if err != nil {
		return pierrors.FileSystemError("watch content dir", err).WithContext("path", dir)
	}
	return nil
}

func hiddenBelow(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg != "." && isHiddenName(seg) {
			return true
		}
	}
	return false
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
