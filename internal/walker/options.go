package walker

import (
	"context"

	"github.com/bethropolis/dir-mirror/internal/utils"
)

// WalkOptions configures the behavior of the Walk function
type WalkOptions struct {
	Logger     utils.Logger
	Concurrent bool
	MaxWorkers int
	Context    context.Context
	ProgressFn ProgressCallback
	// IncludeNonRegular passes symlinks, devices, pipes and sockets to the
	// callback instead of skipping them. Their Entry describes the link
	// itself; nothing is followed.
	IncludeNonRegular bool
}

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats ProgressStats)

// ProgressStats holds statistics about the walk progress
type ProgressStats struct {
	TotalFiles      int64  // Total files seen
	ProcessedFiles  int64  // Files handed to the callback
	SkippedFiles    int64  // Files that were skipped for any reason
	TotalDirs       int64  // Total directories seen
	SkippedDirs     int64  // Directories that were skipped
	CurrentFilePath string // Path of the current file being processed (relative)
}

func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:     utils.NoopLogger{},
		Concurrent: false,
		MaxWorkers: 4,
		Context:    context.Background(),
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		opts.Logger = utils.OrNoop(logger)
	}
}

// WithConcurrency hands files to a worker pool instead of calling back inline
func WithConcurrency(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.Concurrent = enabled
	}
}

// WithMaxWorkers sets the maximum number of concurrent workers
func WithMaxWorkers(workers int) Option {
	return func(opts *WalkOptions) {
		if workers > 0 {
			opts.MaxWorkers = workers
		}
	}
}

// WithContext sets the context for cancellation
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}

// WithProgress adds a progress callback function
func WithProgress(fn ProgressCallback) Option {
	return func(o *WalkOptions) {
		o.ProgressFn = fn
	}
}

// WithNonRegular hands non-regular entries to the callback
func WithNonRegular(enabled bool) Option {
	return func(o *WalkOptions) {
		o.IncludeNonRegular = enabled
	}
}
