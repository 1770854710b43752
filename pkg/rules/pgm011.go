// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm011 flags DROP COLUMN on existing tables.
type pgm011 struct{}

func (pgm011) ID() string                { return "PGM011" }
func (pgm011) DefaultSeverity() Severity { return Info }
func (pgm011) Description() string       { return "DROP COLUMN on existing table" }

func (pgm011) Explain() string {
	return `PGM011 — DROP COLUMN on existing table

What it detects:
ALTER TABLE ... DROP COLUMN on a table that existed before this change.

Why it matters:
Dropping a column is irreversible: the data is gone once the migration
runs. Queries, views and application code still referencing the column
break immediately. The column's storage is only reclaimed lazily.

Safer pattern:
Deploy application code that no longer reads the column first, wait a
release, then drop the column in its own migration so a rollback of the
application does not meet a missing column.`
}

func (r pgm011) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkAlterActions(statements, ctx, AnyPreExisting,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			drop, ok := action.(*ir.DropColumn)
			if !ok {
				return nil
			}
			return []Finding{makeFinding(r,
				fmt.Sprintf("DROP COLUMN '%s' on existing table '%s' is irreversible and breaks readers still referencing it.",
					drop.Name, at.Name.DisplayName()),
				ctx.File, span)}
		})
}
