package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, lines []string, opts ...Option) *IgnoreMatcher {
	t.Helper()
	m, err := New(lines, opts...)
	require.NoError(t, err)
	return m
}

func TestIsIgnoredSubstring(t *testing.T) {
	m := mustNew(t, []string{"foo"})

	cases := []struct {
		path string
		want bool
	}{
		{"foo", true},
		{"barfoo/baz", true},
		{"foo/bar", true},
		{"xfoox", true},
		{"fo/o", false},
		{"bar", false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, m.IsIgnored(tc.path))
		})
	}
}

func TestIsIgnoredLastMatchWins(t *testing.T) {
	m := mustNew(t, []string{"foo", "!foo/keep.txt"})
	assert.False(t, m.IsIgnored("foo/keep.txt"))
	assert.True(t, m.IsIgnored("foo/other.txt"))

	reversed := mustNew(t, []string{"!foo/keep.txt", "foo"})
	assert.True(t, reversed.IsIgnored("foo/keep.txt"))
}

func TestIsIgnoredNormalizesBackslashes(t *testing.T) {
	m := mustNew(t, []string{"a/b"})
	assert.True(t, m.IsIgnored(`a\b\c.txt`))
	assert.True(t, m.IsIgnored("a/b/c.txt"))
}

func TestCommentsAndBlankLinesAreSkipped(t *testing.T) {
	withNoise := mustNew(t, []string{"", "# comment", "build"})
	plain := mustNew(t, []string{"build"})

	for _, p := range []string{"build", "out/build/x", "# comment", "src/main.go", ""} {
		assert.Equal(t, plain.IsIgnored(p), withNoise.IsIgnored(p), p)
	}
	assert.Len(t, withNoise.Rules(), 1)
}

func TestIsIgnoredIsPure(t *testing.T) {
	m := mustNew(t, []string{"tmp", "!tmp/keep", "keep/tmp"})
	for _, p := range []string{"tmp/a", "tmp/keep", "keep/tmp/x", "other"} {
		first := m.IsIgnored(p)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, m.IsIgnored(p))
		}
	}
}

func TestNoRulesIgnoresNothing(t *testing.T) {
	m := mustNew(t, nil)
	assert.False(t, m.IsIgnored("anything"))

	var nilMatcher *IgnoreMatcher
	assert.False(t, nilMatcher.IsIgnored("anything"))
	assert.False(t, IsIgnored(nil, "anything", true))
}

func TestDisabledMatcher(t *testing.T) {
	m := CreateDisabledMatcher()
	assert.False(t, m.ShouldIgnore("foo", false))

	disabled := mustNew(t, []string{"foo"}, WithDisabled(true))
	assert.False(t, disabled.IsIgnored("foo"))
}

func TestDecideReportsDecidingRule(t *testing.T) {
	m := mustNew(t, []string{"# header", "logs", "!logs/keep"})

	res := m.Decide("logs/keep/a", false)
	assert.Equal(t, MatchResult{Ignored: false, Matched: true, RuleIndex: 1}, res)

	res = m.Decide("logs/a", false)
	assert.Equal(t, MatchResult{Ignored: true, Matched: true, RuleIndex: 0}, res)

	res = m.Decide("src", true)
	assert.Equal(t, MatchResult{RuleIndex: -1}, res)
}

func TestPrefixMode(t *testing.T) {
	m := mustNew(t, []string{"./build/", "node_modules"}, WithMode(ModePrefix))

	assert.True(t, m.IsIgnored("build"))
	assert.True(t, m.IsIgnored("build/out.o"))
	assert.False(t, m.IsIgnored("rebuild/out.o"))
	assert.False(t, m.IsIgnored("buildx"))
	assert.True(t, m.IsIgnored("node_modules/pkg/index.js"))
	assert.False(t, m.IsIgnored("web/node_modules/pkg"))
}

func TestGlobMode(t *testing.T) {
	m := mustNew(t, []string{"*.log", "vendor/**", "docs/*.md", "!docs/keep.md"}, WithMode(ModeGlob))

	assert.True(t, m.IsIgnored("app.log"))
	assert.True(t, m.IsIgnored("deep/dir/app.log"))
	assert.False(t, m.IsIgnored("app.log.txt"))
	assert.True(t, m.IsIgnored("vendor/a/b.go"))
	assert.True(t, m.IsIgnored("docs/readme.md"))
	assert.False(t, m.IsIgnored("docs/keep.md"))
	assert.False(t, m.IsIgnored("docs/sub/readme.md"))
}

func TestGlobModeRejectsInvalidPattern(t *testing.T) {
	_, err := New([]string{"[unclosed"}, WithMode(ModeGlob))
	require.Error(t, err)
}

func TestGitignoreMode(t *testing.T) {
	m := mustNew(t, []string{"build/", "*.tmp", "!keep.tmp", "/root-only"}, WithMode(ModeGitignore))

	assert.True(t, m.ShouldIgnore("build", true))
	assert.True(t, m.ShouldIgnore("build/out.o", false))
	assert.False(t, m.ShouldIgnore("build", false))
	assert.True(t, m.ShouldIgnore("a/b/c.tmp", false))
	assert.False(t, m.ShouldIgnore("keep.tmp", false))
	assert.True(t, m.ShouldIgnore("root-only", false))
	assert.False(t, m.ShouldIgnore("sub/root-only", false))
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeSubstring, mode)

	mode, err = ParseMode("GLOB")
	require.NoError(t, err)
	assert.Equal(t, ModeGlob, mode)

	_, err = ParseMode("regex")
	assert.Error(t, err)
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mirrorignore")
	require.NoError(t, os.WriteFile(path, []byte("# cache\r\ncache \r\n\r\n!cache/keep\r\n"), 0o644))

	m, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Rule{{Pattern: "cache"}, {Negated: true, Pattern: "cache/keep"}}, m.Rules())
	assert.True(t, m.IsIgnored("cache/a"))
	assert.False(t, m.IsIgnored("cache/keep"))
}

func TestNewFromFileMissingMeansNoRules(t *testing.T) {
	m, err := NewFromFile(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, m.Rules())
	assert.False(t, m.IsIgnored("anything"))
}

func TestNewFromConfig(t *testing.T) {
	m, err := NewFromConfig(Config{Rules: []string{"a"}, Mode: ModePrefix})
	require.NoError(t, err)
	assert.Equal(t, ModePrefix, m.Mode())
	assert.True(t, m.IsIgnored("a/b"))
	assert.False(t, m.IsIgnored("ba"))
}
