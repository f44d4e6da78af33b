package mirror

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/dir-mirror/internal/walker"
)

// collectDeletions walks the destination and returns every non-ignored
// entry whose relative path does not exist under the source. Symlinks and
// other non-regular entries are included; removing them never follows.
func (r *run) collectDeletions(ctx context.Context) ([]walker.Entry, error) {
	var (
		mu        sync.Mutex
		deletions []walker.Entry
	)
	skipped, err := walker.Walk(r.destination, r.matcher, func(entry walker.Entry) error {
		_, statErr := os.Lstat(filepath.Join(r.source, entry.RelPath))
		switch {
		case statErr == nil:
			return nil
		case errors.Is(statErr, fs.ErrNotExist):
			mu.Lock()
			deletions = append(deletions, entry)
			mu.Unlock()
		default:
			r.opts.logger.Warn("mirror: keeping %s, source counterpart unreadable: %v", entry.RelPath, statErr)
		}
		return nil
	}, append(r.walkOptions(ctx), walker.WithNonRegular(true))...)
	r.skipped(skipped)
	if err != nil {
		return nil, errorf("walk destination %s: %w", r.destination, err)
	}

	SortDeletions(deletions, r.opts.order)
	return deletions, nil
}

// SortDeletions orders entries so that removing them in sequence never
// hits a non-empty directory that the set itself would have emptied.
func SortDeletions(entries []walker.Entry, order DeleteOrder) {
	switch order {
	case DeleteOrderLexical:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Path > entries[j].Path
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			di, dj := depth(entries[i].RelPath), depth(entries[j].RelPath)
			if di != dj {
				return di > dj
			}
			return entries[i].Path > entries[j].Path
		})
	}
}

func depth(rel string) int {
	return strings.Count(filepath.ToSlash(rel), "/")
}

// applyDeletions removes entries in order. Deletions run sequentially
// regardless of the concurrency setting.
func (r *run) applyDeletions(ctx context.Context, entries []walker.Entry) {
	for _, entry := range entries {
		kind := ActionDeleteFile
		if entry.IsDir {
			kind = ActionDeleteDir
		}
		a := Action{Kind: kind, RelPath: entry.RelPath, Destination: entry.Path, Reason: ReasonExtraneous}
		if err := ctx.Err(); err != nil {
			// a removal already started is never interrupted, but nothing new begins
			return
		}
		if !r.dryRun {
			a.Err = os.Remove(entry.Path)
		}
		r.record(a)
	}
}
