package ignore

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Mode selects how a single pattern is matched against a path
type Mode string

const (
	// ModeSubstring matches when the pattern appears anywhere in the path.
	ModeSubstring Mode = "substring"
	// ModePrefix matches the path itself or anything below it.
	ModePrefix Mode = "prefix"
	// ModeGlob matches doublestar globs against the path, its ancestors and,
	// for patterns without a slash, each path segment.
	ModeGlob Mode = "glob"
	// ModeGitignore applies gitignore semantics to each line.
	ModeGitignore Mode = "gitignore"
)

// Modes lists every supported mode
var Modes = []Mode{ModeSubstring, ModePrefix, ModeGlob, ModeGitignore}

// ParseMode validates a mode name. The empty string selects ModeSubstring.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeSubstring, nil
	}
	for _, m := range Modes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("ignore: unknown match mode %q", s)
}

type patternMatcher interface {
	match(path string, isDir bool) bool
}

type compiledRule struct {
	source  Rule
	matcher patternMatcher
}

func compileRule(rule Rule, mode Mode) (compiledRule, error) {
	var pm patternMatcher
	switch mode {
	case ModeSubstring, "":
		pm = substringMatcher(rule.Pattern)
	case ModePrefix:
		pm = newPrefixMatcher(rule.Pattern)
	case ModeGlob:
		g, err := newGlobMatcher(rule.Pattern)
		if err != nil {
			return compiledRule{}, err
		}
		pm = g
	case ModeGitignore:
		g, err := newGitignoreMatcher(rule.Pattern)
		if err != nil {
			return compiledRule{}, err
		}
		pm = g
	default:
		return compiledRule{}, fmt.Errorf("ignore: unknown match mode %q", mode)
	}
	return compiledRule{source: rule, matcher: pm}, nil
}

type substringMatcher string

func (s substringMatcher) match(p string, _ bool) bool {
	return strings.Contains(p, string(s))
}

type prefixMatcher string

func newPrefixMatcher(pattern string) prefixMatcher {
	p := strings.TrimPrefix(pattern, "./")
	p = strings.Trim(p, "/")
	return prefixMatcher(p)
}

func (p prefixMatcher) match(rel string, _ bool) bool {
	if p == "" {
		return false
	}
	s := string(p)
	return rel == s || strings.HasPrefix(rel, s+"/")
}

type globMatcher struct {
	pattern  string
	anywhere bool
}

func newGlobMatcher(pattern string) (*globMatcher, error) {
	p := strings.TrimPrefix(pattern, "/")
	p = strings.TrimSuffix(p, "/")
	if !doublestar.ValidatePattern(p) {
		return nil, fmt.Errorf("ignore: invalid glob pattern %q", pattern)
	}
	return &globMatcher{pattern: p, anywhere: !strings.Contains(p, "/")}, nil
}

func (g *globMatcher) match(rel string, _ bool) bool {
	// the path itself, then every ancestor directory
	for candidate := rel; candidate != "." && candidate != "/" && candidate != ""; candidate = path.Dir(candidate) {
		if ok, _ := doublestar.Match(g.pattern, candidate); ok {
			return true
		}
		if g.anywhere {
			if ok, _ := doublestar.Match(g.pattern, path.Base(candidate)); ok {
				return true
			}
		}
	}
	return false
}

type gitignoreMatcher struct {
	ig gitignore.GitIgnore
}

func newGitignoreMatcher(pattern string) (*gitignoreMatcher, error) {
	var parseErr error
	ig := gitignore.New(strings.NewReader(pattern+"\n"), "", func(e gitignore.Error) bool {
		parseErr = e
		return false
	})
	if parseErr != nil {
		return nil, fmt.Errorf("ignore: invalid gitignore pattern %q: %w", pattern, parseErr)
	}
	return &gitignoreMatcher{ig: ig}, nil
}

func (g *gitignoreMatcher) match(rel string, isDir bool) bool {
	// a rule like "build/" must also cover files below the directory
	for candidate, dir := rel, isDir; candidate != "." && candidate != "/" && candidate != ""; candidate, dir = path.Dir(candidate), true {
		if m := g.ig.Relative(candidate, dir); m != nil && m.Ignore() {
			return true
		}
	}
	return false
}
