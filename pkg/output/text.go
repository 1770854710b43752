// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/rules"
)

// TextReporter produces plain text suitable for terminal display:
//
//	CRITICAL PGM001 db/migrations/V042__add_order_index.sql:3
//	  CREATE INDEX on existing table 'orders' should use CONCURRENTLY to avoid holding an exclusive lock.
//
// Blocks are separated by a blank line.
type TextReporter struct{}

// NewTextReporter creates a text reporter.
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Render formats all findings.
func (r *TextReporter) Render(findings []rules.Finding) (string, error) {
	var b strings.Builder
	for i, f := range findings {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d\n  %s\n",
			f.Severity, f.RuleID, normalizePath(f.File), f.StartLine, f.Message)
	}
	return b.String(), nil
}

// Filename implements Reporter.
func (r *TextReporter) Filename() string {
	return "findings.txt"
}
