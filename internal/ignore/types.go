package ignore

import (
	"github.com/bethropolis/dir-mirror/internal/utils"
)

// Rule is one parsed ignore line
type Rule struct {
	Negated bool
	Pattern string
}

// String renders the rule the way it would appear in an ignore file
func (r Rule) String() string {
	if r.Negated {
		return "!" + r.Pattern
	}
	return r.Pattern
}

// MatchResult explains a verdict
type MatchResult struct {
	// Ignored is the final verdict.
	Ignored bool
	// Matched reports whether any rule matched at all.
	Matched bool
	// RuleIndex is the index of the deciding rule, -1 when nothing matched.
	RuleIndex int
}

// IgnoreMatcher evaluates relative paths against an ordered rule set.
// It is read-only after New returns and safe for concurrent use.
type IgnoreMatcher struct {
	rules    []compiledRule
	mode     Mode
	logger   utils.Logger
	disabled bool
}

// Config holds configuration options for the ignore matcher
type Config struct {
	Rules    []string
	Mode     Mode
	Logger   utils.Logger
	Disabled bool
}

// NewFromConfig creates an IgnoreMatcher from a Config struct
func NewFromConfig(cfg Config) (*IgnoreMatcher, error) {
	options := []Option{
		WithMode(cfg.Mode),
		WithDisabled(cfg.Disabled),
	}
	if cfg.Logger != nil {
		options = append(options, WithLogger(cfg.Logger))
	}
	return New(cfg.Rules, options...)
}
