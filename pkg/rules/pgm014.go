// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm014 flags DROP COLUMN when the column participates in the table's
// primary key.
type pgm014 struct{}

func (pgm014) ID() string                { return "PGM014" }
func (pgm014) DefaultSeverity() Severity { return Major }
func (pgm014) Description() string       { return "DROP COLUMN removes primary key" }

func (pgm014) Explain() string {
	return `PGM014 — DROP COLUMN removes primary key

What it detects:
ALTER TABLE ... DROP COLUMN where the dropped column participates in
the table's PRIMARY KEY.

Why it's dangerous:
The primary key constraint is silently dropped along with the column,
leaving the table without row identity. Logical replication targeting
the table stops working for UPDATE/DELETE, and ORMs relying on the key
break.

Fix:
Define the replacement key first (unique index CONCURRENTLY, then ADD
CONSTRAINT ... PRIMARY KEY USING INDEX), then drop the column.`
}

func (r pgm014) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkDropColumnConstraints(statements, ctx,
		func(column string, at *ir.AlterTable, table *catalog.TableState, span ir.SourceSpan) []Finding {
			if !containsString(table.PrimaryKeyColumns(ctx.CatalogBefore), column) {
				return nil
			}
			return []Finding{makeFinding(r,
				fmt.Sprintf("Dropping column '%s' on '%s' silently removes the table's primary key.",
					column, at.Name.DisplayName()),
				ctx.File, span)}
		})
}
