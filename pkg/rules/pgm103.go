// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm103 flags char(n) columns. The parser canonicalizes char to bpchar.
type pgm103 struct{}

func (pgm103) ID() string                { return "PGM103" }
func (pgm103) DefaultSeverity() Severity { return Minor }
func (pgm103) Description() string       { return "Column uses char(n) type" }

func (pgm103) Explain() string {
	return `PGM103 — Don't use char(n)

What it detects:
A column declared as char(n) (internally bpchar).

Why it matters:
char(n) pads values with spaces to the declared length. The padding
wastes storage, participates in comparisons in surprising ways, and —
contrary to folklore carried over from other databases — char(n) is no
faster than text or varchar in PostgreSQL.

Fix:
Use text, or varchar(n) if a length limit is genuinely required.`
}

func (r pgm103) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkColumnTypes(statements, ctx, r,
		func(t ir.TypeName) bool { return t.Name == "bpchar" },
		func(col string, table ir.QualifiedName, t ir.TypeName) string {
			display := "char"
			if len(t.Modifiers) > 0 {
				display = fmt.Sprintf("char(%d)", t.Modifiers[0])
			}
			return fmt.Sprintf("Column '%s' on '%s' uses '%s'. The char(n) type pads with spaces, wastes storage, and is no faster than text or varchar in PostgreSQL. Use text or varchar instead.",
				col, table.DisplayName(), display)
		})
}
