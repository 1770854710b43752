// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// Finding is one emitted diagnostic.
type Finding struct {
	RuleID    string
	Severity  Severity
	Message   string
	File      string
	StartLine int
	EndLine   int
}

// NewFinding builds a finding from a span.
func NewFinding(ruleID string, severity Severity, message, file string, span ir.SourceSpan) Finding {
	return Finding{
		RuleID:    ruleID,
		Severity:  severity,
		Message:   message,
		File:      file,
		StartLine: span.StartLine,
		EndLine:   span.EndLine,
	}
}

// CapForDownMigration caps every finding's severity to Info. Down
// migrations are informational only (PGM901).
func CapForDownMigration(findings []Finding) {
	for i := range findings {
		findings[i].Severity = Info
	}
}
