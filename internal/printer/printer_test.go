package printer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bethropolis/dir-mirror/internal/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	p := New().WithColors(false)

	cases := []struct {
		name   string
		action mirror.Action
		want   string
	}{
		{"Copy", mirror.Action{Kind: mirror.ActionCopy, Source: "src/a", Destination: "dst/a"}, "[COPY] src/a -> dst/a"},
		{"DeleteFile", mirror.Action{Kind: mirror.ActionDeleteFile, Destination: "dst/c"}, "[DEL F] dst/c"},
		{"DeleteDir", mirror.Action{Kind: mirror.ActionDeleteDir, Destination: "dst/old"}, "[DEL D] dst/old"},
		{"Mkdir", mirror.Action{Kind: mirror.ActionMkdir, Destination: "dst/sub"}, "[MKDIR] dst/sub"},
		{"Error", mirror.Action{Kind: mirror.ActionCopy, RelPath: "a", Err: errors.New("denied")}, "[ERROR] copy a: denied"},
		{"DryRun", mirror.Action{Kind: mirror.ActionDeleteFile, Destination: "dst/c", DryRun: true}, "(dry-run) [DEL F] dst/c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Format(tc.action))
		})
	}
}

func TestReportCountsAndWrites(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false)

	p.Report(mirror.Action{Kind: mirror.ActionCopy, Source: "s", Destination: "d"})
	p.Report(mirror.Action{Kind: mirror.ActionCopy, RelPath: "x", Err: errors.New("boom")})

	assert.EqualValues(t, 2, p.GetCount())
	assert.EqualValues(t, 1, p.FailedCount())
	assert.Equal(t, "[COPY] s -> d\n[ERROR] copy x: boom\n", buf.String())
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithJSON(true)

	p.Report(mirror.Action{Kind: mirror.ActionDeleteDir, RelPath: "old", Destination: "dst/old", Reason: mirror.ReasonExtraneous})
	p.Report(mirror.Action{Kind: mirror.ActionCopy, RelPath: "a", Err: errors.New("boom")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first JSONAction
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, mirror.ActionDeleteDir, first.Kind)
	assert.Equal(t, "old", first.Path)
	assert.Equal(t, mirror.ReasonExtraneous, first.Reason)
	assert.Empty(t, first.Error)

	var second JSONAction
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "boom", second.Error)
}
