// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm010 flags ADD COLUMN ... NOT NULL without a DEFAULT on existing
// tables: with existing rows the statement fails outright.
type pgm010 struct{}

func (pgm010) ID() string                { return "PGM010" }
func (pgm010) DefaultSeverity() Severity { return Critical }
func (pgm010) Description() string       { return "ADD COLUMN NOT NULL without DEFAULT" }

func (pgm010) Explain() string {
	return `PGM010 — ADD COLUMN NOT NULL without DEFAULT

What it detects:
ALTER TABLE ... ADD COLUMN with a NOT NULL constraint but no DEFAULT,
on a table that existed before this change.

Why it's dangerous:
If the table contains any rows, the statement fails immediately:
  ERROR: column "x" of relation "t" contains null values
The migration breaks at deploy time on production data even though it
passed on an empty development database.

Fix (two-step):
  1. ADD COLUMN x type DEFAULT <value> NOT NULL;   -- PG 11+: no rewrite
  or, when no sensible default exists:
  1. ADD COLUMN x type;                -- nullable
  2. Backfill in batches, then SET NOT NULL (see PGM016).`
}

func (r pgm010) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkAlterActions(statements, ctx, AnyPreExisting,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			add, ok := action.(*ir.AddColumn)
			if !ok {
				return nil
			}
			if add.Column.Nullable || add.Column.DefaultExpr != nil {
				return nil
			}
			return []Finding{makeFinding(r,
				fmt.Sprintf("ADD COLUMN '%s' NOT NULL without DEFAULT on existing table '%s' fails when the table has rows. Add a DEFAULT or backfill before setting NOT NULL.",
					add.Column.Name, at.Name.DisplayName()),
				ctx.File, span)}
		})
}
