// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm023 flags ADD FOREIGN KEY without NOT VALID on existing tables.
type pgm023 struct{}

func (pgm023) ID() string                { return "PGM023" }
func (pgm023) DefaultSeverity() Severity { return Critical }
func (pgm023) Description() string       { return "ADD FOREIGN KEY without NOT VALID" }

func (pgm023) Explain() string {
	return `PGM023 — ADD FOREIGN KEY without NOT VALID

What it detects:
ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY on an existing table
without the NOT VALID clause.

Why it's dangerous:
Without NOT VALID, PostgreSQL validates every existing row against the
referenced table while holding locks on BOTH tables (SHARE ROW
EXCLUSIVE). On large tables this blocks writes on two tables at once
for the duration of the scan.

Safe pattern:
  1. ALTER TABLE t ADD CONSTRAINT fk ... FOREIGN KEY ... NOT VALID;
  2. ALTER TABLE t VALIDATE CONSTRAINT fk;
Step 1 is instant and enforces the constraint for new rows; step 2
validates existing rows under a weaker lock that does not block
writes.`
}

func (r pgm023) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkAlterActions(statements, ctx, ExcludeCreatedInChange,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			add, ok := action.(*ir.AddConstraint)
			if !ok {
				return nil
			}
			fk, ok := add.Constraint.(*ir.ForeignKeyConstraint)
			if !ok || fk.NotValid {
				return nil
			}
			return []Finding{makeFinding(r,
				fmt.Sprintf("ADD FOREIGN KEY on existing table '%s' (%s) without NOT VALID validates every row while locking both tables. Add the constraint NOT VALID, then VALIDATE CONSTRAINT separately.",
					at.Name.DisplayName(), strings.Join(fk.Columns, ", ")),
				ctx.File, span)}
		})
}
