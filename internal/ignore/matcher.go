package ignore

import (
	"github.com/bethropolis/dir-mirror/internal/utils"
)

// New parses lines into rules and compiles them for the configured mode.
// Blank and comment lines are skipped silently. Only glob and gitignore
// modes can fail, on patterns their engines reject.
func New(lines []string, opts ...Option) (*IgnoreMatcher, error) {
	matcher := &IgnoreMatcher{
		mode:   ModeSubstring,
		logger: utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(matcher)
	}

	if matcher.disabled {
		matcher.logger.Debug("ignore.New: matcher is disabled, skipping %d lines", len(lines))
		return matcher, nil
	}

	if matcher.mode != ModeSubstring {
		matcher.logger.Warn("ignore.New: using %s matching; patterns are no longer plain substrings", matcher.mode)
	}

	rules := ParseRules(lines)
	matcher.rules = make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr, err := compileRule(r, matcher.mode)
		if err != nil {
			return nil, err
		}
		matcher.rules = append(matcher.rules, cr)
	}
	matcher.logger.Debug("ignore.New: compiled %d rules (%s mode)", len(matcher.rules), matcher.mode)
	return matcher, nil
}

// Rules returns a copy of the parsed rules in evaluation order
func (m *IgnoreMatcher) Rules() []Rule {
	if m == nil {
		return nil
	}
	out := make([]Rule, len(m.rules))
	for i, cr := range m.rules {
		out[i] = cr.source
	}
	return out
}

// Mode reports the match mode the rules were compiled for
func (m *IgnoreMatcher) Mode() Mode {
	if m == nil {
		return ModeSubstring
	}
	return m.mode
}
