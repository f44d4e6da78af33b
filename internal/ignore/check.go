package ignore

import (
	"strings"
)

// IsIgnored reports whether path is excluded. Directories and files are
// treated alike; use ShouldIgnore when the caller knows the entry type.
func (m *IgnoreMatcher) IsIgnored(path string) bool {
	return m.Decide(path, false).Ignored
}

// ShouldIgnore checks if a file or directory should be ignored
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	return m.Decide(relativePath, isDir).Ignored
}

// Decide evaluates every rule in order; the last matching one wins
func (m *IgnoreMatcher) Decide(relativePath string, isDir bool) MatchResult {
	res := MatchResult{RuleIndex: -1}
	if m == nil || m.disabled {
		return res
	}

	p := normalize(relativePath)
	for i := range m.rules {
		if !m.rules[i].matcher.match(p, isDir) {
			continue
		}
		res.Matched = true
		res.RuleIndex = i
		res.Ignored = !m.rules[i].source.Negated
	}

	if res.Matched {
		m.logger.Debug("ignore.Decide: %q ignored=%v by rule %d (%s)", p, res.Ignored, res.RuleIndex, m.rules[res.RuleIndex].source)
	}
	return res
}

func normalize(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
