package mirror

import (
	"time"

	"github.com/bethropolis/dir-mirror/internal/utils"
	"github.com/bethropolis/dir-mirror/internal/walker"
)

// DeleteOrder selects how the deletion set is sorted before removal
type DeleteOrder string

const (
	// DeleteOrderDepth removes deeper paths first, ties broken by
	// descending path. Children always go before their ancestors.
	DeleteOrderDepth DeleteOrder = "depth"
	// DeleteOrderLexical sorts full paths in descending byte order.
	DeleteOrderLexical DeleteOrder = "lexical"
)

// ParseDeleteOrder validates an order name; empty selects DeleteOrderDepth
func ParseDeleteOrder(s string) (DeleteOrder, error) {
	switch DeleteOrder(s) {
	case "", DeleteOrderDepth:
		return DeleteOrderDepth, nil
	case DeleteOrderLexical:
		return DeleteOrderLexical, nil
	}
	return "", errorf("unknown delete order %q", s)
}

// Reporter receives every action as soon as it completes. Calls are
// serialized by the engine.
type Reporter interface {
	Report(Action)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(Action)

func (f ReporterFunc) Report(a Action) { f(a) }

type engineOptions struct {
	logger      utils.Logger
	reporter    Reporter
	order       DeleteOrder
	mtimeWindow time.Duration
	dryRun      bool
	concurrent  bool
	maxWorkers  int
	progress    walker.ProgressCallback
}

func defaultOptions() engineOptions {
	return engineOptions{
		logger:     utils.NoopLogger{},
		order:      DeleteOrderDepth,
		maxWorkers: 4,
	}
}

// Option configures an Engine
type Option func(*engineOptions)

func WithLogger(logger utils.Logger) Option {
	return func(o *engineOptions) {
		o.logger = utils.OrNoop(logger)
	}
}

func WithReporter(r Reporter) Option {
	return func(o *engineOptions) {
		o.reporter = r
	}
}

func WithDeleteOrder(order DeleteOrder) Option {
	return func(o *engineOptions) {
		if order != "" {
			o.order = order
		}
	}
}

// WithModTimeWindow treats modification times within d of each other as
// equal. Useful for filesystems with coarse timestamps.
func WithModTimeWindow(d time.Duration) Option {
	return func(o *engineOptions) {
		if d >= 0 {
			o.mtimeWindow = d
		}
	}
}

// WithDryRun computes and reports every action without touching the destination
func WithDryRun(enabled bool) Option {
	return func(o *engineOptions) {
		o.dryRun = enabled
	}
}

// WithConcurrency copies files through a worker pool. Phases stay ordered.
func WithConcurrency(enabled bool) Option {
	return func(o *engineOptions) {
		o.concurrent = enabled
	}
}

func WithMaxWorkers(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.maxWorkers = n
		}
	}
}

// WithProgress receives walk statistics while the source tree is copied
func WithProgress(fn walker.ProgressCallback) Option {
	return func(o *engineOptions) {
		o.progress = fn
	}
}
