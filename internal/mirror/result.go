package mirror

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bethropolis/dir-mirror/internal/walker"
)

// ActionKind names what the engine did (or would do) to one path
type ActionKind string

const (
	ActionCopy       ActionKind = "copy"
	ActionDeleteFile ActionKind = "delete-file"
	ActionDeleteDir  ActionKind = "delete-dir"
	ActionMkdir      ActionKind = "mkdir"
)

// Reason explains why an action was taken
type Reason string

const (
	// ReasonMissing: the destination has no counterpart.
	ReasonMissing Reason = "missing"
	// ReasonModTime: modification times differ.
	ReasonModTime Reason = "modtime"
	// ReasonSize: sizes differ.
	ReasonSize Reason = "size"
	// ReasonExtraneous: the entry exists only in the destination.
	ReasonExtraneous Reason = "extraneous"
)

// Action is the outcome of one step of a run. Err is set when the step failed.
type Action struct {
	Kind        ActionKind `json:"kind"`
	RelPath     string     `json:"rel_path"`
	Source      string     `json:"source,omitempty"`
	Destination string     `json:"destination"`
	Reason      Reason     `json:"reason"`
	DryRun      bool       `json:"dry_run,omitempty"`
	Err         error      `json:"-"`
}

// Failed reports whether the action did not complete
func (a Action) Failed() bool {
	return a.Err != nil
}

// ActionError wraps the error of a failed action
type ActionError struct {
	Action Action
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action.Kind, filepath.ToSlash(e.Action.RelPath), e.Action.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Action.Err
}

// Result summarizes one run
type Result struct {
	Copied      int
	Deleted     int
	DirsCreated int
	Unchanged   int

	// Actions holds every attempted step, failed ones included, in the
	// order they completed.
	Actions  []Action
	Failures []Action
	Skipped  []walker.SkippedItem
	Duration time.Duration
}

// Changed counts the successful mutations (or planned ones in dry-run mode)
func (r Result) Changed() int {
	return r.Copied + r.Deleted + r.DirsCreated
}

// Err joins the errors of every failed action, nil when all succeeded
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, &ActionError{Action: f})
	}
	return errors.Join(errs...)
}

func (r *Result) add(a Action) {
	r.Actions = append(r.Actions, a)
	if a.Failed() {
		r.Failures = append(r.Failures, a)
		return
	}
	switch a.Kind {
	case ActionCopy:
		r.Copied++
	case ActionDeleteFile, ActionDeleteDir:
		r.Deleted++
	case ActionMkdir:
		r.DirsCreated++
	}
}
