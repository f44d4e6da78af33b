// Package watch re-triggers mirroring when the source tree changes
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bethropolis/dir-mirror/internal/utils"
	"github.com/fsnotify/fsnotify"
)

// Matcher decides whether a relative path is excluded
type Matcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// Handler receives the relative paths changed during one debounce window
type Handler func(ctx context.Context, changed []string)

// Options configures a Watcher
type Options struct {
	// Debounce is how long the tree must stay quiet before Handler runs.
	Debounce time.Duration
	Logger   utils.Logger
}

// Watcher watches a directory tree recursively
type Watcher struct {
	root     string
	matcher  Matcher
	handler  Handler
	debounce time.Duration
	logger   utils.Logger
	fsw      *fsnotify.Watcher
}

// New creates a watcher for root. Call Run to start it.
func New(root string, matcher Matcher, handler Handler, opts Options) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: failed to get absolute path for '%s': %w", root, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	return &Watcher{
		root:     absRoot,
		matcher:  matcher,
		handler:  handler,
		debounce: opts.Debounce,
		logger:   utils.OrNoop(opts.Logger),
		fsw:      fsw,
	}, nil
}

// Run watches until ctx is done, then closes the underlying watcher.
// Pending changes are dropped on shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	w.logger.Info("Watching %s for changes.", w.root)

	pending := map[string]struct{}{}
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel, keep := w.accept(event)
			if !keep {
				continue
			}
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch: %v", err)

		case <-timerC:
			timer, timerC = nil, nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]struct{}{}
			w.logger.Debug("watch: %d paths changed", len(changed))
			w.handler(ctx, changed)
		}
	}
}

// accept filters an event and starts watching newly created directories
func (w *Watcher) accept(event fsnotify.Event) (string, bool) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return "", false
	}
	isDir := false
	if event.Has(fsnotify.Create) {
		if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
			isDir = true
			if addErr := w.addRecursive(event.Name); addErr != nil {
				w.logger.Warn("watch: cannot watch %s: %v", rel, addErr)
			}
		}
	}
	if w.matcher != nil && w.matcher.ShouldIgnore(rel, isDir) {
		return "", false
	}
	return rel, true
}

// addRecursive watches dir and every directory below it. Ignored
// directories are still watched because negated rules may re-include
// their children.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}
