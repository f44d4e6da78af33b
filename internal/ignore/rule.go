package ignore

import "strings"

const trailingSpace = " \r\n\t"

// ParseRule turns one raw ignore-file line into a Rule.
// ok is false for blank lines and comments.
func ParseRule(line string) (rule Rule, ok bool) {
	line = strings.TrimRight(line, trailingSpace)
	if line == "" || line[0] == '#' {
		return Rule{}, false
	}
	if line[0] == '!' {
		return Rule{Negated: true, Pattern: line[1:]}, true
	}
	return Rule{Pattern: line}, true
}

// ParseRules parses lines in order, dropping the ones ParseRule rejects
func ParseRules(lines []string) []Rule {
	rules := make([]Rule, 0, len(lines))
	for _, line := range lines {
		if r, ok := ParseRule(line); ok {
			rules = append(rules, r)
		}
	}
	return rules
}
