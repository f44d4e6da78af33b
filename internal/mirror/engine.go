// Package mirror reconciles a destination tree with a source tree.
//
// A run has two strictly ordered phases. The deletion phase walks the
// destination and removes every non-ignored entry with no counterpart in
// the source, children before parents. The copy phase then walks the
// source, creates missing directories and copies each file whose
// destination is missing or differs in size or modification time,
// carrying the source modification time over. Ignored paths are left
// alone by both phases. Individual failures are recorded in the Result
// and never abort the run.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/dir-mirror/internal/walker"
)

// ErrSourceNotDir is returned when the source root is missing or not a directory
var ErrSourceNotDir = errors.New("source is not a directory")

func errorf(format string, args ...interface{}) error {
	return fmt.Errorf("mirror: "+format, args...)
}

// Matcher decides whether a relative path is excluded from mirroring
type Matcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// Engine mirrors trees. It holds no per-run state and may be reused.
type Engine struct {
	matcher Matcher
	opts    engineOptions
}

// New creates an Engine. A nil matcher ignores nothing.
func New(matcher Matcher, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{matcher: matcher, opts: o}
}

// run carries the mutable state of one Mirror call
type run struct {
	*Engine
	source      string
	destination string
	dryRun      bool

	mu     sync.Mutex
	result Result
}

func (r *run) record(a Action) {
	a.DryRun = r.dryRun
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.add(a)
	if a.Failed() {
		r.opts.logger.Error("mirror: %s %s: %v", a.Kind, a.RelPath, a.Err)
	} else {
		r.opts.logger.Debug("mirror: %s %s (%s)", a.Kind, a.RelPath, a.Reason)
	}
	if r.opts.reporter != nil {
		r.opts.reporter.Report(a)
	}
}

func (r *run) unchanged() {
	r.mu.Lock()
	r.result.Unchanged++
	r.mu.Unlock()
}

func (r *run) skipped(items []walker.SkippedItem) {
	r.mu.Lock()
	r.result.Skipped = append(r.result.Skipped, items...)
	r.mu.Unlock()
}

// Mirror makes destination a copy of source.
//
// The returned error covers conditions that stop the run as a whole:
// an unusable source root, a destination that cannot be created, or ctx
// ending. Per-entry failures are in Result.Failures.
func (e *Engine) Mirror(ctx context.Context, source, destination string) (Result, error) {
	return e.mirror(ctx, source, destination, e.opts.dryRun)
}

func (e *Engine) mirror(ctx context.Context, source, destination string, dryRun bool) (Result, error) {
	start := time.Now()
	r := &run{Engine: e, source: source, destination: destination, dryRun: dryRun}

	info, err := os.Stat(source)
	if err != nil {
		return r.result, errorf("%w: %s: %v", ErrSourceNotDir, source, err)
	}
	if !info.IsDir() {
		return r.result, errorf("%w: %s", ErrSourceNotDir, source)
	}

	destExists := true
	if dryRun {
		if _, statErr := os.Stat(destination); errors.Is(statErr, fs.ErrNotExist) {
			destExists = false
		}
	} else if err := os.MkdirAll(destination, 0o755); err != nil {
		return r.result, errorf("create destination %s: %w", destination, err)
	}

	e.opts.logger.Debug("mirror: %s -> %s (dry-run: %v, order: %s)", source, destination, dryRun, e.opts.order)

	if destExists {
		deletions, err := r.collectDeletions(ctx)
		if err != nil {
			r.result.Duration = time.Since(start)
			return r.result, err
		}
		r.applyDeletions(ctx, deletions)
	}

	// the deletion phase is complete before the copy walk starts
	if err := ctx.Err(); err != nil {
		r.result.Duration = time.Since(start)
		return r.result, errorf("cancelled before copy phase: %w", err)
	}

	err = r.copyPhase(ctx)
	r.result.Duration = time.Since(start)
	return r.result, err
}

func (r *run) walkOptions(ctx context.Context) []walker.Option {
	return []walker.Option{
		walker.WithContext(ctx),
		walker.WithLogger(r.opts.logger),
		walker.WithConcurrency(r.opts.concurrent),
		walker.WithMaxWorkers(r.opts.maxWorkers),
	}
}

func (r *run) copyPhase(ctx context.Context) error {
	opts := r.walkOptions(ctx)
	if r.opts.progress != nil {
		opts = append(opts, walker.WithProgress(r.opts.progress))
	}
	skipped, err := walker.Walk(r.source, r.matcher, func(entry walker.Entry) error {
		if entry.IsDir {
			r.mirrorDir(entry)
			return nil
		}
		r.mirrorFile(entry)
		return nil
	}, opts...)
	r.skipped(skipped)
	if err != nil {
		return errorf("walk source %s: %w", r.source, err)
	}
	return nil
}

func (r *run) mirrorDir(entry walker.Entry) {
	dst := filepath.Join(r.destination, entry.RelPath)
	info, err := os.Stat(dst)
	if err == nil && info.IsDir() {
		return
	}

	a := Action{Kind: ActionMkdir, RelPath: entry.RelPath, Source: entry.Path, Destination: dst, Reason: ReasonMissing}
	if !r.dryRun {
		a.Err = os.MkdirAll(dst, 0o755)
	}
	r.record(a)
}

func (r *run) mirrorFile(entry walker.Entry) {
	dst := filepath.Join(r.destination, entry.RelPath)
	reason, stale := r.staleness(entry, dst)
	if !stale {
		r.unchanged()
		return
	}

	a := Action{Kind: ActionCopy, RelPath: entry.RelPath, Source: entry.Path, Destination: dst, Reason: reason}
	if !r.dryRun {
		a.Err = copyFile(entry.Path, dst, entry.Mode, entry.ModTime)
	}
	r.record(a)
}

// staleness reports whether dst must be rewritten from entry, and why
func (r *run) staleness(entry walker.Entry, dst string) (Reason, bool) {
	info, err := os.Stat(dst)
	if err != nil {
		// anything we cannot stat is treated as missing; the copy reports the real error
		return ReasonMissing, true
	}
	if !sameModTime(entry.ModTime, info.ModTime(), r.opts.mtimeWindow) {
		return ReasonModTime, true
	}
	if entry.Size != info.Size() {
		return ReasonSize, true
	}
	return "", false
}

func sameModTime(a, b time.Time, window time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= window
}
