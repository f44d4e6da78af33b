// Package app wires configuration, the mirror engine and console output together
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/dir-mirror/internal/config"
	"github.com/bethropolis/dir-mirror/internal/ignore"
	"github.com/bethropolis/dir-mirror/internal/logger"
	"github.com/bethropolis/dir-mirror/internal/mirror"
	"github.com/bethropolis/dir-mirror/internal/printer"
	"github.com/bethropolis/dir-mirror/internal/setup"
	"github.com/bethropolis/dir-mirror/internal/summary"
	"github.com/bethropolis/dir-mirror/internal/watch"
	"github.com/fatih/color"
)

// ErrFailures is returned in strict mode when any copy or deletion failed
var ErrFailures = errors.New("some operations failed")

// App encapsulates the main application functionality
type App struct {
	cfg *config.Config
	log *logger.Logger

	// Output receives action lines, ErrOutput progress and skipped items.
	Output    io.Writer
	ErrOutput io.Writer
}

// New creates a new App instance
func New(cfg *config.Config) (*App, error) {
	// Configure color globally
	color.NoColor = !cfg.UseColors

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       logger.New(os.Stderr, level, cfg.UseColors),
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
	}, nil
}

// WithLogger replaces the application logger
func (a *App) WithLogger(l *logger.Logger) *App {
	a.log = l
	return a
}

// Run mirrors once, then keeps mirroring on source changes in watch mode
func (a *App) Run(ctx context.Context) error {
	a.log.Debug("Source: %s", a.cfg.Source)
	a.log.Debug("Destination: %s", a.cfg.Destination)
	a.log.Debug("Match mode: %s, delete order: %s", a.cfg.MatchMode, a.cfg.DeleteOrder)
	a.log.Debug("Concurrent mode: %v (workers: %d)", a.cfg.Concurrent, a.cfg.MaxWorkers)

	p := printer.New().
		WithOutput(a.Output).
		WithColors(a.cfg.UseColors && !a.cfg.JSONOutput).
		WithJSON(a.cfg.JSONOutput)

	matcher, opts, err := setup.ConfigureMirror(a.cfg, a.log, p, a.ErrOutput)
	if err != nil {
		return err
	}
	engine := mirror.New(matcher, opts...)

	if a.cfg.DryRun {
		a.log.Info("Dry run: the destination will not be modified.")
	}

	if err := a.runOnce(ctx, engine); err != nil {
		if !a.cfg.Watch || !errors.Is(err, ErrFailures) {
			return err
		}
		a.log.Warn("%v", err)
	}
	if !a.cfg.Watch {
		return nil
	}
	return a.watch(ctx, engine, matcher)
}

func (a *App) watch(ctx context.Context, engine *mirror.Engine, matcher *ignore.IgnoreMatcher) error {
	w, err := watch.New(a.cfg.Source, matcher, func(ctx context.Context, changed []string) {
		a.log.Info("%d paths changed; mirroring again.", len(changed))
		if err := a.runOnce(ctx, engine); err != nil {
			a.log.Error("%v", err)
		}
	}, watch.Options{Debounce: a.cfg.Debounce, Logger: a.log})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func (a *App) runOnce(ctx context.Context, engine *mirror.Engine) error {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	res, err := engine.Mirror(ctx, a.cfg.Source, a.cfg.Destination)
	if a.cfg.Progress && !a.cfg.Quiet {
		fmt.Fprintln(a.ErrOutput)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("timeout of %v reached: %w", a.cfg.Timeout, err)
		}
		return err
	}

	summary.DisplayResults(a.log, res, a.cfg.DryRun, a.cfg.Quiet)
	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, res.Skipped, a.ErrOutput, a.cfg.Quiet)
	}

	if a.cfg.Strict && len(res.Failures) > 0 {
		return fmt.Errorf("%w: %d of %d: %v", ErrFailures, len(res.Failures), len(res.Actions), res.Err())
	}
	return nil
}

