// Package printer renders mirror actions for the console
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/dir-mirror/internal/mirror"
	"github.com/fatih/color"
)

var (
	copyTag  = color.New(color.FgGreen)
	delTag   = color.New(color.FgRed)
	mkdirTag = color.New(color.FgCyan)
	errorTag = color.New(color.FgRed, color.Bold)
)

// Printer writes one line per action to the configured output
type Printer struct {
	mu         sync.Mutex
	output     io.Writer
	count      atomic.Int64
	failed     atomic.Int64
	useColors  bool
	jsonOutput bool
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored tags
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON switches to one JSON object per line
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// JSONAction is the JSON-lines form of a mirror.Action
type JSONAction struct {
	Kind        mirror.ActionKind `json:"kind"`
	Path        string            `json:"path"`
	Source      string            `json:"source,omitempty"`
	Destination string            `json:"destination"`
	Reason      mirror.Reason     `json:"reason,omitempty"`
	DryRun      bool              `json:"dry_run,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Report implements mirror.Reporter
func (p *Printer) Report(a mirror.Action) {
	p.count.Add(1)
	if a.Failed() {
		p.failed.Add(1)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.jsonOutput {
		p.writeJSON(a)
		return
	}
	fmt.Fprintln(p.output, p.Format(a))
}

func (p *Printer) writeJSON(a mirror.Action) {
	entry := JSONAction{
		Kind:        a.Kind,
		Path:        a.RelPath,
		Source:      a.Source,
		Destination: a.Destination,
		Reason:      a.Reason,
		DryRun:      a.DryRun,
	}
	if a.Err != nil {
		entry.Error = a.Err.Error()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Fprintf(p.output, "%s\n", data)
}

// Format renders the console line for a
func (p *Printer) Format(a mirror.Action) string {
	var line string
	switch {
	case a.Failed():
		line = p.tag(errorTag, "[ERROR]") + " " + (&mirror.ActionError{Action: a}).Error()
	case a.Kind == mirror.ActionCopy:
		line = fmt.Sprintf("%s %s -> %s", p.tag(copyTag, "[COPY]"), a.Source, a.Destination)
	case a.Kind == mirror.ActionDeleteFile:
		line = fmt.Sprintf("%s %s", p.tag(delTag, "[DEL F]"), a.Destination)
	case a.Kind == mirror.ActionDeleteDir:
		line = fmt.Sprintf("%s %s", p.tag(delTag, "[DEL D]"), a.Destination)
	case a.Kind == mirror.ActionMkdir:
		line = fmt.Sprintf("%s %s", p.tag(mkdirTag, "[MKDIR]"), a.Destination)
	default:
		line = fmt.Sprintf("[%s] %s", a.Kind, a.Destination)
	}
	if a.DryRun {
		line = "(dry-run) " + line
	}
	return line
}

func (p *Printer) tag(c *color.Color, s string) string {
	if !p.useColors {
		return s
	}
	return c.Sprint(s)
}

// GetCount returns the number of actions printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}

// FailedCount returns the number of failed actions printed
func (p *Printer) FailedCount() int64 {
	return p.failed.Load()
}
