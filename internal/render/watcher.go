package render

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/fsblog/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for template edits to settle.
const DefaultDebounce = 250 * time.Millisecond

// Holder publishes the current library to concurrent readers.
type Holder struct {
	current atomic.Pointer[Library]
}

// NewHolder returns a holder serving lib.
func NewHolder(lib *Library) *Holder {
	h := &Holder{}
	h.current.Store(lib)
	return h
}

// Library returns the library in use.
func (h *Holder) Library() *Library { return h.current.Load() }

// Store replaces the library in use.
func (h *Holder) Store(lib *Library) { h.current.Store(lib) }

// Watcher reloads a template directory into a Holder whenever files below it
// change. A reload that fails keeps the previous library.
type Watcher struct {
	dir      string
	holder   *Holder
	watcher  *fsnotify.Watcher
	Debounce time.Duration
	// OnReload, when set, is called after every reload attempt.
	OnReload func(*Library, error)
}

// NewWatcher watches dir and all of its subdirectories.
func NewWatcher(dir string, holder *Holder) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to resolve templates path: %w", err)
	}

	w := &Watcher{dir: absDir, holder: holder, watcher: fw, Debounce: DefaultDebounce}
	if err := w.addTree(absDir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch templates directory %s: %w", path, err)
		}
		return nil
	})
}

// Run processes file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing template watcher", logfields.Error(err))
		}
	}()

	slog.Info("Watching templates", logfields.Path(w.dir))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				// New format directories need their own watch.
				_ = w.addTree(event.Name)
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Template change detected", logfields.File(event.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.Debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			_ = w.Reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Template watcher error", logfields.Error(err))
		}
	}
}

// Reload rebuilds the library from disk and publishes it on success.
func (w *Watcher) Reload() error {
	lib, err := LoadLibrary(w.dir)
	if err != nil {
		slog.Error("Failed to reload templates; keeping previous set", logfields.Path(w.dir), logfields.Error(err))
	} else {
		w.holder.Store(lib)
		slog.Info("Templates reloaded", logfields.Path(w.dir), logfields.Count(len(lib.Formats())))
	}
	if w.OnReload != nil {
		w.OnReload(lib, err)
	}
	return err
}
