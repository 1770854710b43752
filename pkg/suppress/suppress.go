// SPDX-License-Identifier: Apache-2.0

// Package suppress extracts rule-silencing directives from SQL source
// text. Three directive kinds are recognized in `--` line comments:
//
//	-- pg-migration-lint: disable-file [rule-ids...]
//	-- pg-migration-lint: disable-next-line [rule-ids...]
//	-- pg-migration-lint: disable [rule-ids...]
//	...
//	-- pg-migration-lint: enable [rule-ids...]
//
// A directive without a rule list applies to all rules. Malformed
// directives are treated as plain comments.
package suppress

import (
	"strings"
)

const directivePrefix = "pg-migration-lint:"

// Suppressions is the parsed set of directives for one source file.
type Suppressions struct {
	// fileWide rules are disabled for the whole file; the allRules flag
	// covers directives without a rule list.
	fileWide    map[string]struct{}
	fileWideAll bool

	// nextLine maps a directive's line to the rules silenced on the line
	// after it. A nil set means all rules.
	nextLine map[int]map[string]struct{}

	// ranges holds disable/enable spans, inclusive of the marker lines.
	ranges []suppressRange
}

type suppressRange struct {
	startLine int
	// endLine is the enable marker's line, or -1 for an unclosed range
	// running to end of file.
	endLine int
	// rules is nil when the range disables all rules.
	rules map[string]struct{}
}

// Parse extracts suppressions from SQL source text. It is a pure
// function of the source.
func Parse(source string) *Suppressions {
	s := &Suppressions{
		fileWide: make(map[string]struct{}),
		nextLine: make(map[int]map[string]struct{}),
	}

	// Open disable-ranges by rule-set key, so interleaved ranges for
	// different rule lists pair up with their own enable markers.
	type openRange struct {
		startLine int
		rules     map[string]struct{}
	}
	var open []openRange

	for i, line := range strings.Split(source, "\n") {
		lineNo := i + 1
		directive, args, ok := parseDirective(line)
		if !ok {
			continue
		}

		switch directive {
		case "disable-file":
			if len(args) == 0 {
				s.fileWideAll = true
			}
			for _, id := range args {
				s.fileWide[id] = struct{}{}
			}
		case "disable-next-line":
			s.nextLine[lineNo] = ruleSet(args)
		case "disable":
			open = append(open, openRange{startLine: lineNo, rules: ruleSet(args)})
		case "enable":
			enableRules := ruleSet(args)
			for j := len(open) - 1; j >= 0; j-- {
				if !sameRuleSet(open[j].rules, enableRules) {
					continue
				}
				s.ranges = append(s.ranges, suppressRange{
					startLine: open[j].startLine,
					endLine:   lineNo,
					rules:     open[j].rules,
				})
				open = append(open[:j], open[j+1:]...)
				break
			}
		}
	}

	// Unclosed disable ranges run to end of file.
	for _, o := range open {
		s.ranges = append(s.ranges, suppressRange{
			startLine: o.startLine,
			endLine:   -1,
			rules:     o.rules,
		})
	}

	return s
}

// parseDirective recognizes a suppression directive in a line. It
// requires a `--` comment whose text starts with the exact prefix.
func parseDirective(line string) (directive string, args []string, ok bool) {
	idx := strings.Index(line, "--")
	if idx < 0 {
		return "", nil, false
	}
	comment := strings.TrimSpace(line[idx+2:])
	if !strings.HasPrefix(comment, directivePrefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(comment, directivePrefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	switch fields[0] {
	case "disable-file", "disable-next-line", "disable", "enable":
		return fields[0], fields[1:], true
	default:
		return "", nil, false
	}
}

// ruleSet returns nil for "all rules", or a set of the listed IDs.
func ruleSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sameRuleSet(a, b map[string]struct{}) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// IsSuppressed reports whether a finding for the given rule on the given
// line is silenced by any directive. Directives without a rule list
// match every rule.
func (s *Suppressions) IsSuppressed(ruleID string, line int) bool {
	if s.fileWideAll {
		return true
	}
	if _, ok := s.fileWide[ruleID]; ok {
		return true
	}

	if rules, ok := s.nextLine[line-1]; ok {
		if rules == nil {
			return true
		}
		if _, ok := rules[ruleID]; ok {
			return true
		}
	}

	for _, r := range s.ranges {
		if line < r.startLine {
			continue
		}
		if r.endLine >= 0 && line > r.endLine {
			continue
		}
		if r.rules == nil {
			return true
		}
		if _, ok := r.rules[ruleID]; ok {
			return true
		}
	}

	return false
}

// RuleIDs returns every rule ID mentioned in any directive, so the
// caller can warn about unknown ones. Order is unspecified.
func (s *Suppressions) RuleIDs() []string {
	seen := make(map[string]struct{})
	for id := range s.fileWide {
		seen[id] = struct{}{}
	}
	for _, rules := range s.nextLine {
		for id := range rules {
			seen[id] = struct{}{}
		}
	}
	for _, r := range s.ranges {
		for id := range r.rules {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}
