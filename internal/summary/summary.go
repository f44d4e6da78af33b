// Package summary handles display of run results and skipped paths
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bethropolis/dir-mirror/internal/mirror"
	"github.com/bethropolis/dir-mirror/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// DisplayResults logs the counters of one mirror run
func DisplayResults(logger Logger, res mirror.Result, dryRun bool, quiet bool) {
	if len(res.Failures) > 0 {
		logger.Warn("%d operations failed; re-run to retry them.", len(res.Failures))
	}
	if quiet {
		return
	}
	verb := "Mirrored"
	if dryRun {
		verb = "Dry run"
	}
	logger.Info("%s: %d copied, %d deleted, %d directories created, %d unchanged.",
		verb, res.Copied, res.Deleted, res.DirsCreated, res.Unchanged)
	logger.Info("Sync finished in %v.", res.Duration.Round(time.Millisecond))
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) > 0 {
		items := make([]walker.SkippedItem, len(skippedItems))
		copy(items, skippedItems)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Path < items[j].Path
		})
		for _, item := range items {
			typeStr := "FILE"
			if item.IsDir {
				typeStr = "DIR " // Add space for alignment
			}
			fmt.Fprintf(output, "Skipped %s: %-.*s [%s]\n",
				typeStr,
				50, // Max width for path column
				item.Path,
				item.Reason,
			)
		}
	} else {
		infoLog("No items were skipped.")
	}
	infoLog("--- End Skipped Items ---")
}
