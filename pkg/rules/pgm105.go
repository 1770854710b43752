// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm105 flags serial/bigserial/smallserial columns. The converter marks
// these on the column; the type itself is already canonicalized to the
// underlying integer type.
type pgm105 struct{}

func (pgm105) ID() string                { return "PGM105" }
func (pgm105) DefaultSeverity() Severity { return Info }
func (pgm105) Description() string       { return "Column uses serial type" }

func (pgm105) Explain() string {
	return `PGM105 — Prefer identity columns over serial

What it detects:
A column declared as serial, bigserial, or smallserial.

Why it matters:
serial is a pre-PostgreSQL-10 idiom: it creates a sequence, sets a
default, and loosely couples the two. Permissions and ownership of the
sequence are managed separately, and the column is not protected from
manual inserts that desynchronize the sequence.

Fix:
Use an identity column instead:
  id bigint GENERATED ALWAYS AS IDENTITY
It is SQL-standard, keeps the sequence tied to the column, and
prevents accidental manual inserts (unless OVERRIDING SYSTEM VALUE is
given).`
}

func (r pgm105) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		switch n := stmt.Node.(type) {
		case *ir.CreateTable:
			for _, col := range n.Columns {
				if col.IsSerial {
					findings = append(findings, r.finding(col.Name, n.Name, ctx, stmt.Span))
				}
			}
		case *ir.AlterTable:
			for _, action := range n.Actions {
				if add, ok := action.(*ir.AddColumn); ok && add.Column.IsSerial {
					findings = append(findings, r.finding(add.Column.Name, n.Name, ctx, stmt.Span))
				}
			}
		}
	}
	return findings
}

func (r pgm105) finding(col string, table ir.QualifiedName, ctx *LintContext, span ir.SourceSpan) Finding {
	return makeFinding(r,
		fmt.Sprintf("Column '%s' on '%s' uses a serial type. Prefer an identity column (GENERATED ALWAYS AS IDENTITY), the SQL-standard replacement.",
			col, table.DisplayName()),
		ctx.File, span)
}
