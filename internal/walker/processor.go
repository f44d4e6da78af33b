package walker

import (
	"context"
	"sync"
)

// fileWorker drains queued files until the channel closes or the walk is cancelled
func fileWorker(
	ctx context.Context,
	id int,
	files <-chan Entry,
	wg *sync.WaitGroup,
	options WalkOptions,
	walkFn WalkFunc,
	stats *walkStats,
	fail func(error),
) {
	defer wg.Done()
	options.Logger.Debug("Worker %d: Started", id)

	for entry := range files {
		if ctx.Err() != nil {
			// keep draining so the walking goroutine never blocks on send
			continue
		}
		if options.ProgressFn != nil {
			snap := stats.snapshot()
			snap.CurrentFilePath = entry.RelPath
			options.ProgressFn(snap)
		}
		options.Logger.Debug("Worker %d: Processing file [%s]", id, entry.RelPath)
		stats.processedFiles.Add(1)
		if err := walkFn(entry); err != nil {
			options.Logger.Error("Worker %d: callback failed for [%s]: %v", id, entry.RelPath, err)
			fail(err)
		}
	}

	options.Logger.Debug("Worker %d: Finished", id)
}
