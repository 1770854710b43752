// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm015 flags DROP COLUMN when the column participates in a foreign key
// constraint on the table.
type pgm015 struct{}

func (pgm015) ID() string                { return "PGM015" }
func (pgm015) DefaultSeverity() Severity { return Minor }
func (pgm015) Description() string       { return "DROP COLUMN removes foreign key" }

func (pgm015) Explain() string {
	return `PGM015 — DROP COLUMN removes foreign key

What it detects:
ALTER TABLE ... DROP COLUMN where the dropped column participates in a
FOREIGN KEY constraint on the table.

Why it matters:
The foreign key is silently dropped with the column. Referential
integrity between the tables is no longer enforced and orphaned rows
can appear without any error.

Fix:
If the relationship should survive on other columns, add the
replacement constraint (NOT VALID, then VALIDATE) before dropping the
column.`
}

func (r pgm015) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkDropColumnConstraints(statements, ctx,
		func(column string, at *ir.AlterTable, table *catalog.TableState, span ir.SourceSpan) []Finding {
			var findings []Finding
			for _, nc := range table.Constraints {
				fk, ok := nc.Constraint.(*ir.ForeignKeyConstraint)
				if !ok || !containsString(fk.Columns, column) {
					continue
				}
				findings = append(findings, makeFinding(r,
					fmt.Sprintf("Dropping column '%s' on '%s' silently removes the foreign key referencing '%s'.",
						column, at.Name.DisplayName(), fk.RefTable.DisplayName()),
					ctx.File, span))
			}
			return findings
		})
}
