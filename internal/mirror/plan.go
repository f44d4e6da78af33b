package mirror

import (
	"context"
)

// Plan is the set of changes a run would make: deletions in removal
// order, then directory creations and copies in source walk order
type Plan struct {
	Deletions []Action
	Mkdirs    []Action
	Copies    []Action
}

// Empty reports whether the destination already mirrors the source
func (p Plan) Empty() bool {
	return len(p.Deletions) == 0 && len(p.Mkdirs) == 0 && len(p.Copies) == 0
}

// Plan computes what Mirror would do without modifying anything.
// Directory creations do not cascade: a copy into a directory that
// would be created is still listed as a copy.
func (e *Engine) Plan(ctx context.Context, source, destination string) (Plan, error) {
	quiet := &Engine{matcher: e.matcher, opts: e.opts}
	quiet.opts.reporter = nil
	quiet.opts.progress = nil
	res, err := quiet.mirror(ctx, source, destination, true)
	if err != nil {
		return Plan{}, err
	}
	var p Plan
	for _, a := range res.Actions {
		switch a.Kind {
		case ActionDeleteFile, ActionDeleteDir:
			p.Deletions = append(p.Deletions, a)
		case ActionMkdir:
			p.Mkdirs = append(p.Mkdirs, a)
		case ActionCopy:
			p.Copies = append(p.Copies, a)
		}
	}
	return p, nil
}
