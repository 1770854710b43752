// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm013 flags DROP COLUMN when the column participates in a unique
// constraint or unique index: the uniqueness guarantee silently
// disappears with the column.
type pgm013 struct{}

func (pgm013) ID() string                { return "PGM013" }
func (pgm013) DefaultSeverity() Severity { return Minor }
func (pgm013) Description() string       { return "DROP COLUMN removes unique constraint" }

func (pgm013) Explain() string {
	return `PGM013 — DROP COLUMN removes unique constraint

What it detects:
ALTER TABLE ... DROP COLUMN where the dropped column participates in a
UNIQUE constraint or unique index on the table.

Why it matters:
PostgreSQL silently drops constraints and indexes that depend on a
dropped column. The uniqueness guarantee disappears without any
warning, and duplicate rows can start accumulating immediately.

Fix:
If the guarantee should survive, create a replacement unique index on
the remaining columns (CONCURRENTLY) before dropping the column.`
}

func (r pgm013) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkDropColumnConstraints(statements, ctx,
		func(column string, at *ir.AlterTable, table *catalog.TableState, span ir.SourceSpan) []Finding {
			var findings []Finding
			for _, nc := range table.Constraints {
				u, ok := nc.Constraint.(*ir.UniqueConstraint)
				if !ok {
					continue
				}
				if containsString(constraintColumns(u, ctx.CatalogBefore), column) {
					findings = append(findings, makeFinding(r,
						fmt.Sprintf("Dropping column '%s' on '%s' silently removes the unique constraint over (%s).",
							column, at.Name.DisplayName(), strings.Join(constraintColumns(u, ctx.CatalogBefore), ", ")),
						ctx.File, span))
				}
			}
			for _, idxName := range table.Indexes {
				idx := ctx.CatalogBefore.GetIndex(idxName)
				if idx == nil || !idx.Unique {
					continue
				}
				if indexMentionsColumn(idx, column) {
					findings = append(findings, makeFinding(r,
						fmt.Sprintf("Dropping column '%s' on '%s' silently removes unique index '%s'.",
							column, at.Name.DisplayName(), idxName),
						ctx.File, span))
				}
			}
			return findings
		})
}

func indexMentionsColumn(idx *catalog.IndexState, column string) bool {
	for _, elem := range idx.Columns {
		if elem.Name == column || containsString(elem.ReferencedColumns, column) {
			return true
		}
	}
	return false
}
