// Package setup provides initialization and configuration functions
package setup

import (
	"fmt"
	"io"

	"github.com/bethropolis/dir-mirror/internal/config"
	"github.com/bethropolis/dir-mirror/internal/ignore"
	"github.com/bethropolis/dir-mirror/internal/mirror"
	"github.com/bethropolis/dir-mirror/internal/utils"
	"github.com/bethropolis/dir-mirror/internal/walker"
)

// ConfigureMirror builds the ignore matcher and the engine options for cfg.
// Progress lines go to progressOut when cfg.Progress is set.
func ConfigureMirror(
	cfg *config.Config,
	logger utils.Logger,
	reporter mirror.Reporter,
	progressOut io.Writer,
) (*ignore.IgnoreMatcher, []mirror.Option, error) {
	logger = utils.OrNoop(logger)

	mode, err := ignore.ParseMode(cfg.MatchMode)
	if err != nil {
		return nil, nil, fmt.Errorf("setup: %w", err)
	}
	order, err := mirror.ParseDeleteOrder(cfg.DeleteOrder)
	if err != nil {
		return nil, nil, fmt.Errorf("setup: %w", err)
	}

	// --- Initialize ignore matcher ---
	var matcher *ignore.IgnoreMatcher
	if cfg.IgnoreFile != "" {
		matcher, err = ignore.NewFromFile(cfg.IgnoreFile, ignore.WithMode(mode), ignore.WithLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("setup: error initializing ignore rules: %w", err)
		}
		logger.Info("Loaded %d ignore rules from %s (%s mode).", len(matcher.Rules()), cfg.IgnoreFile, mode)
	} else {
		matcher = ignore.CreateDisabledMatcher()
		logger.Debug("No ignore file given; nothing is ignored.")
	}

	// --- Engine options ---
	opts := []mirror.Option{
		mirror.WithLogger(logger),
		mirror.WithDeleteOrder(order),
		mirror.WithModTimeWindow(cfg.MtimeWindow),
		mirror.WithDryRun(cfg.DryRun),
		mirror.WithConcurrency(cfg.Concurrent),
		mirror.WithMaxWorkers(cfg.MaxWorkers),
	}
	if reporter != nil {
		opts = append(opts, mirror.WithReporter(reporter))
	}
	if order != mirror.DeleteOrderDepth {
		logger.Debug("Deleting in %s order.", order)
	}

	if cfg.Progress && !cfg.Quiet && progressOut != nil {
		logger.Debug("Progress display enabled")
		opts = append(opts, mirror.WithProgress(progressLine(progressOut)))
	}

	return matcher, opts, nil
}

// progressLine rewrites a single status line with carriage returns
func progressLine(w io.Writer) walker.ProgressCallback {
	return func(stats walker.ProgressStats) {
		path := stats.CurrentFilePath
		if len(path) > 40 {
			path = "..." + path[len(path)-37:]
		}
		fmt.Fprintf(w, "\rMirroring: %-40s | Files: %d/%d | Dirs: %d",
			path,
			stats.ProcessedFiles,
			stats.TotalFiles,
			stats.TotalDirs)
	}
}
