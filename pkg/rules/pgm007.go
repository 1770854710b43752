// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm007 flags ALTER COLUMN TYPE on existing tables. Most type changes
// rewrite the table; even binary-compatible ones take heavy locks.
type pgm007 struct{}

func (pgm007) ID() string                { return "PGM007" }
func (pgm007) DefaultSeverity() Severity { return Minor }
func (pgm007) Description() string       { return "Column type change on existing table" }

func (pgm007) Explain() string {
	return `PGM007 — Column type change on existing table

What it detects:
ALTER TABLE ... ALTER COLUMN ... TYPE on a table that existed before
this change.

Why it's dangerous:
Most type changes rewrite the whole table under an ACCESS EXCLUSIVE
lock, and even binary-coercible changes (e.g. varchar(n) to text)
still take the lock briefly and invalidate cached plans. Dependent
views, indexes and constraints may be rebuilt.

Safer pattern:
Add a new column with the target type, backfill in batches, swap reads
to the new column, then drop the old column in a later migration.`
}

func (r pgm007) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkAlterActions(statements, ctx, ExcludeCreatedInChange,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			change, ok := action.(*ir.AlterColumnType)
			if !ok {
				return nil
			}
			from := ""
			if change.OldType != nil {
				from = fmt.Sprintf(" from '%s'", change.OldType)
			}
			return []Finding{makeFinding(r,
				fmt.Sprintf("Changing type of column '%s' on existing table '%s'%s to '%s' may rewrite the table under an ACCESS EXCLUSIVE lock.",
					change.ColumnName, at.Name.DisplayName(), from, change.NewType.String()),
				ctx.File, span)}
		})
}
