// Package watch re-runs a callback when Python files under a set of paths
// change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 100 * time.Millisecond

// Config holds watcher configuration.
type Config struct {
	// Debounce is the quiet period before changes are reported (optional)
	Debounce time.Duration
	// Match selects the files of interest (optional, defaults to .py/.pyi)
	Match func(path string) bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Watcher reports changed files in debounced batches.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	match    func(string) bool
	logger   *slog.Logger

	mu sync.Mutex
	// trees are directories watched for every file below them
	trees map[string]bool
	// files are explicitly added files; their directories report only them
	files map[string]bool
}

// New creates a watcher with no paths registered.
func New(cfg Config) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fs,
		debounce: cfg.Debounce,
		match:    cfg.Match,
		logger:   cfg.Logger,
		trees:    make(map[string]bool),
		files:    make(map[string]bool),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.match == nil {
		w.match = IsPython
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	return w, nil
}

// IsPython reports whether path names a Python source or stub file.
func IsPython(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".py" || ext == ".pyi"
}

// Add registers paths. Directories are watched recursively, skipping hidden
// directories and __pycache__. A file registers its parent directory, but
// only changes to that file are reported unless the directory is also
// watched as a tree.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := w.fs.Add(filepath.Dir(p)); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
			w.mu.Lock()
			w.files[filepath.Clean(p)] = true
			w.mu.Unlock()
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != p && (strings.HasPrefix(d.Name(), ".") || d.Name() == "__pycache__") {
				return filepath.SkipDir
			}
			if err := w.fs.Add(path); err != nil {
				return err
			}
			w.mu.Lock()
			w.trees[filepath.Clean(path)] = true
			w.mu.Unlock()
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}
	return nil
}

// wanted reports whether a change to path was asked for: path was added as a
// file or lies directly in a directory watched as a tree.
func (w *Watcher) wanted(path string) bool {
	path = filepath.Clean(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path] || w.trees[filepath.Dir(path)]
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run delivers sorted batches of changed files to onChange until ctx is
// cancelled. onChange runs on the watcher goroutine; events arriving while it
// runs are queued for the next batch.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, files []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					name := filepath.Base(event.Name)
					if w.wanted(event.Name) && !strings.HasPrefix(name, ".") && name != "__pycache__" {
						if err := w.Add(event.Name); err != nil {
							w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
						}
					}
					continue
				}
			}
			if !w.match(event.Name) || !w.wanted(event.Name) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			sort.Strings(files)
			clear(pending)
			w.logger.Debug("change detected", "files", len(files))
			onChange(ctx, files)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Run watches paths with the default configuration until ctx is cancelled.
func Run(ctx context.Context, paths []string, onChange func(ctx context.Context, files []string)) error {
	w, err := New(Config{})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(paths...); err != nil {
		return err
	}
	return w.Run(ctx, onChange)
}
