// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm102 flags timestamp(0) / timestamptz(0) columns.
type pgm102 struct{}

func (pgm102) ID() string                { return "PGM102" }
func (pgm102) DefaultSeverity() Severity { return Minor }
func (pgm102) Description() string       { return "Column uses timestamp or timestamptz with precision 0" }

func (pgm102) Explain() string {
	return `PGM102 — Don't use timestamp(0) or timestamptz(0)

What it detects:
A column declared as 'timestamp(0)' or 'timestamptz(0)'.

Why it matters:
Precision 0 causes rounding, not truncation — a value of '23:59:59.9'
rounds up to the next second, potentially the next day. Code that
expects truncation silently gets off-by-one timestamps at boundaries.

Fix:
Use full precision and format on output (date_trunc or to_char) when a
coarser display is wanted.`
}

func (r pgm102) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkColumnTypes(statements, ctx, r,
		func(t ir.TypeName) bool {
			return (t.Name == "timestamp" || t.Name == "timestamptz") &&
				len(t.Modifiers) == 1 && t.Modifiers[0] == 0
		},
		func(col string, table ir.QualifiedName, t ir.TypeName) string {
			return fmt.Sprintf("Column '%s' on '%s' uses '%s(0)'. Precision 0 causes rounding, not truncation — a value of '23:59:59.9' rounds to the next day. Use full precision and format on output instead.",
				col, table.DisplayName(), t.Name)
		})
}
