// Package ignore decides which relative paths are excluded from mirroring
//
// Rules come from an ignore file, one per line. Blank lines and lines
// starting with '#' are skipped, a leading '!' turns a rule into a
// re-include, and the last rule that matches a path decides its verdict.
// How a single pattern matches a path depends on the configured Mode;
// the default, ModeSubstring, treats the pattern as a plain substring of
// the slash-separated relative path.
package ignore

// NewFromFile reads rules from path and builds a matcher from them.
// A missing or unreadable file yields a matcher without rules.
func NewFromFile(path string, opts ...Option) (*IgnoreMatcher, error) {
	lines, err := LoadFile(path)
	if err != nil {
		m, buildErr := New(nil, opts...)
		if buildErr != nil {
			return nil, buildErr
		}
		m.logger.Warn("ignore: no rules loaded from %q: %v", path, err)
		return m, nil
	}
	return New(lines, opts...)
}

// CreateDisabledMatcher returns a matcher that ignores nothing
func CreateDisabledMatcher() *IgnoreMatcher {
	matcher, _ := New(nil, WithDisabled(true))
	return matcher
}

// IsIgnored is a convenience function to check if a path should be ignored
func IsIgnored(matcher *IgnoreMatcher, path string, isDir bool) bool {
	if matcher == nil {
		return false
	}
	return matcher.ShouldIgnore(path, isDir)
}
