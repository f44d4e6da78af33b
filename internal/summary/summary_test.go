package summary

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/bethropolis/dir-mirror/internal/mirror"
	"github.com/bethropolis/dir-mirror/internal/walker"
	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	infos []string
	warns []string
}

func (r *recordingLogger) Info(format string, args ...interface{}) {
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Warn(format string, args ...interface{}) {
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}

func TestDisplayResults(t *testing.T) {
	log := &recordingLogger{}
	res := mirror.Result{Copied: 2, Deleted: 1, DirsCreated: 1, Unchanged: 5, Duration: 1500 * time.Microsecond}

	DisplayResults(log, res, false, false)
	assert.Equal(t, []string{
		"Mirrored: 2 copied, 1 deleted, 1 directories created, 5 unchanged.",
		"Sync finished in 2ms.",
	}, log.infos)
	assert.Empty(t, log.warns)
}

func TestDisplayResultsWarnsOnFailuresEvenWhenQuiet(t *testing.T) {
	log := &recordingLogger{}
	res := mirror.Result{Failures: []mirror.Action{{Kind: mirror.ActionCopy}}}

	DisplayResults(log, res, true, true)
	assert.Empty(t, log.infos)
	assert.Equal(t, []string{"1 operations failed; re-run to retry them."}, log.warns)
}

func TestDisplaySkippedItemsSorted(t *testing.T) {
	log := &recordingLogger{}
	var out bytes.Buffer
	items := []walker.SkippedItem{
		{Path: "z.log", Reason: walker.ReasonIgnoredRule},
		{Path: "cache", Reason: walker.ReasonIgnoredRule, IsDir: true},
	}

	DisplaySkippedItems(log, items, &out, false)
	assert.Equal(t,
		"Skipped DIR : cache [Ignored (Ignore Rule)]\nSkipped FILE: z.log [Ignored (Ignore Rule)]\n",
		out.String())
	assert.Equal(t, "z.log", items[0].Path, "input slice must not be reordered")
}
