// Package walker handles directory traversal and entry enumeration
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNotDir is returned when the walk root is not a directory
var ErrNotDir = errors.New("not a directory")

type walkStats struct {
	totalFiles     atomic.Int64
	processedFiles atomic.Int64
	skippedFiles   atomic.Int64
	totalDirs      atomic.Int64
	skippedDirs    atomic.Int64
}

func (s *walkStats) skip(isDir bool) {
	if isDir {
		s.skippedDirs.Add(1)
	} else {
		s.skippedFiles.Add(1)
	}
}

func (s *walkStats) snapshot() ProgressStats {
	return ProgressStats{
		TotalFiles:     s.totalFiles.Load(),
		ProcessedFiles: s.processedFiles.Load(),
		SkippedFiles:   s.skippedFiles.Load(),
		TotalDirs:      s.totalDirs.Load(),
		SkippedDirs:    s.skippedDirs.Load(),
	}
}

// Walk traverses the directory tree below rootDir in lexical order and
// calls walkFn for every directory and regular file the matcher does not
// exclude. Ignored directories are still descended into so that negated
// rules can bring their children back. The root itself is never passed
// to walkFn.
//
// It returns the skipped items and the first error that stopped the walk.
// Errors on individual entries are tracked as skipped, not returned.
func Walk(rootDir string, matcher Matcher, walkFn WalkFunc, opts ...Option) ([]SkippedItem, error) {
	startTime := time.Now()

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return []SkippedItem{{Path: rootDir, Reason: ReasonSkippedPathError, IsDir: true}},
			fmt.Errorf("walker: failed to get absolute path for '%s': %w", rootDir, err)
	}
	rootInfo, err := os.Stat(absRootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: root %s: %w", absRootDir, err)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("walker: root %s: %w", absRootDir, ErrNotDir)
	}

	ctx, cancel := context.WithCancel(options.Context)
	defer cancel()

	tracker := NewSkippedTracker(64)
	var stats walkStats

	// callbacks from the ticker and from workers never overlap
	if fn := options.ProgressFn; fn != nil {
		var progressMu sync.Mutex
		options.ProgressFn = func(s ProgressStats) {
			progressMu.Lock()
			defer progressMu.Unlock()
			fn(s)
		}
	}

	tickerDone := make(chan struct{})
	if options.ProgressFn == nil {
		close(tickerDone)
	} else {
		go func() {
			defer close(tickerDone)
			ticker := time.NewTicker(300 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					options.ProgressFn(stats.snapshot())
				}
			}
		}()
	}

	options.Logger.Debug("walker.Walk started. Root: %s, Concurrent: %v, Workers: %d",
		absRootDir, options.Concurrent, options.MaxWorkers)

	// classify turns a WalkDir callback into an Entry, or tracks why not
	classify := func(path string, d fs.DirEntry, err error) (Entry, bool, error) {
		select {
		case <-ctx.Done():
			return Entry{}, false, ctx.Err()
		default:
		}

		if path == absRootDir {
			return Entry{}, false, err
		}

		isDir := d != nil && d.IsDir()
		if isDir {
			stats.totalDirs.Add(1)
		} else {
			stats.totalFiles.Add(1)
		}

		relativePath, relErr := filepath.Rel(absRootDir, path)
		if relErr != nil {
			options.Logger.Error("Walker Error: Path calculation failed for %q: %v", path, relErr)
			tracker.Track(path, ReasonSkippedPathError, isDir)
			stats.skip(isDir)
			return Entry{}, false, nil
		}

		if err != nil {
			reason := ReasonSkippedWalkError
			if os.IsPermission(err) {
				reason = ReasonSkippedPermError
			}
			options.Logger.Warn("Walker: walk error for %q: %v", relativePath, err)
			tracker.Track(relativePath, reason, isDir)
			stats.skip(isDir)
			return Entry{}, false, nil
		}

		if matcher != nil && matcher.ShouldIgnore(relativePath, isDir) {
			options.Logger.Debug("Walker: Ignored %q by matcher rules", relativePath)
			tracker.Track(relativePath, ReasonIgnoredRule, isDir)
			stats.skip(isDir)
			return Entry{}, false, nil
		}

		if !isDir && !d.Type().IsRegular() && !options.IncludeNonRegular {
			options.Logger.Debug("Walker: Skipping %q: not a regular file", relativePath)
			tracker.Track(relativePath, ReasonSkippedNotRegular, false)
			stats.skip(false)
			return Entry{}, false, nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			options.Logger.Warn("Walker: file info for %q: %v", relativePath, infoErr)
			tracker.Track(relativePath, ReasonSkippedInfoError, isDir)
			stats.skip(isDir)
			return Entry{}, false, nil
		}

		return Entry{
			Path:    path,
			RelPath: relativePath,
			IsDir:   isDir,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		}, true, nil
	}

	var walkErr error
	if options.Concurrent {
		walkErr = walkConcurrent(ctx, cancel, absRootDir, classify, walkFn, options, &stats)
	} else {
		options.Logger.Debug("Walker: Starting sequential walk.")
		walkErr = filepath.WalkDir(absRootDir, func(path string, d fs.DirEntry, err error) error {
			entry, ok, cerr := classify(path, d, err)
			if cerr != nil || !ok {
				return cerr
			}
			if !entry.IsDir {
				stats.processedFiles.Add(1)
			}
			return walkFn(entry)
		})
	}

	cancel()
	<-tickerDone
	if options.ProgressFn != nil {
		options.ProgressFn(stats.snapshot())
	}
	options.Logger.Debug("Walker: Total walk time: %s", time.Since(startTime))

	return tracker.Items(), walkErr
}

func walkConcurrent(
	ctx context.Context,
	cancel context.CancelFunc,
	absRootDir string,
	classify func(string, fs.DirEntry, error) (Entry, bool, error),
	walkFn WalkFunc,
	options WalkOptions,
	stats *walkStats,
) error {
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	filesChan := make(chan Entry, options.MaxWorkers*2)
	options.Logger.Debug("Starting %d workers for concurrent processing.", options.MaxWorkers)
	for i := 0; i < options.MaxWorkers; i++ {
		wg.Add(1)
		go fileWorker(ctx, i+1, filesChan, &wg, options, walkFn, stats, fail)
	}

	walkErr := filepath.WalkDir(absRootDir, func(path string, d fs.DirEntry, err error) error {
		entry, ok, cerr := classify(path, d, err)
		if cerr != nil || !ok {
			return cerr
		}
		if entry.IsDir {
			return walkFn(entry)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case filesChan <- entry:
			options.Logger.Debug("Walker Queueing: File [%s]", entry.RelPath)
		}
		return nil
	})

	close(filesChan)
	options.Logger.Debug("Walker: Waiting for workers to complete...")
	wg.Wait()

	// a worker failure cancels the walk; report the cause, not the cancellation
	if firstErr != nil {
		return firstErr
	}
	return walkErr
}
