// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm016 flags SET NOT NULL on existing tables: it takes an ACCESS
// EXCLUSIVE lock and scans the whole table.
type pgm016 struct{}

func (pgm016) ID() string                { return "PGM016" }
func (pgm016) DefaultSeverity() Severity { return Critical }
func (pgm016) Description() string       { return "SET NOT NULL on existing table" }

func (pgm016) Explain() string {
	return `PGM016 — SET NOT NULL on existing table

What it detects:
ALTER TABLE ... ALTER COLUMN ... SET NOT NULL on a table that existed
before this change.

Why it's dangerous:
SET NOT NULL acquires an ACCESS EXCLUSIVE lock and scans the entire
table to verify no NULLs exist, blocking all reads and writes for the
duration.

Safe pattern:
  1. ALTER TABLE t ADD CONSTRAINT t_x_not_null
       CHECK (x IS NOT NULL) NOT VALID;        -- instant
  2. ALTER TABLE t VALIDATE CONSTRAINT t_x_not_null;  -- weak lock
  3. ALTER TABLE t ALTER COLUMN x SET NOT NULL;
On PostgreSQL 12+, step 3 sees the validated constraint and skips the
table scan, so only a brief lock remains.`
}

func (r pgm016) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkAlterActions(statements, ctx, ExcludeCreatedInChange,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			set, ok := action.(*ir.SetNotNull)
			if !ok {
				return nil
			}
			return []Finding{makeFinding(r,
				fmt.Sprintf("SET NOT NULL on column '%s' of existing table '%s' requires an ACCESS EXCLUSIVE lock and full table scan. Use a CHECK constraint with NOT VALID, validate it, then set NOT NULL.",
					set.ColumnName, at.Name.DisplayName()),
				ctx.File, span)}
		})
}
