// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm012 flags ADD PRIMARY KEY without USING INDEX on existing tables:
// PostgreSQL builds the backing unique index under an exclusive lock.
type pgm012 struct{}

func (pgm012) ID() string                { return "PGM012" }
func (pgm012) DefaultSeverity() Severity { return Major }
func (pgm012) Description() string       { return "ADD PRIMARY KEY without prior unique index" }

func (pgm012) Explain() string {
	return `PGM012 — ADD PRIMARY KEY without prior unique index

What it detects:
ALTER TABLE ... ADD PRIMARY KEY on an existing table without the
USING INDEX clause.

Why it's dangerous:
Adding a primary key builds its backing unique index inside the same
ACCESS EXCLUSIVE lock, scanning the whole table while all access is
blocked. On large tables this is extended downtime.

Safe pattern:
  1. CREATE UNIQUE INDEX CONCURRENTLY pk_idx ON t (id);
  2. ALTER TABLE t ADD CONSTRAINT t_pkey
       PRIMARY KEY USING INDEX pk_idx;
Step 2 still takes the exclusive lock, but only for a catalog update —
the index already exists.`
}

func (r pgm012) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkAlterActions(statements, ctx, ExcludeCreatedInChange,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			add, ok := action.(*ir.AddConstraint)
			if !ok {
				return nil
			}
			pk, ok := add.Constraint.(*ir.PrimaryKeyConstraint)
			if !ok || pk.UsingIndex != "" {
				return nil
			}
			return []Finding{makeFinding(r,
				fmt.Sprintf("ADD PRIMARY KEY on existing table '%s' (%s) builds its index under an ACCESS EXCLUSIVE lock. Create a unique index CONCURRENTLY first, then ADD CONSTRAINT ... PRIMARY KEY USING INDEX.",
					at.Name.DisplayName(), strings.Join(pk.Columns, ", ")),
				ctx.File, span)}
		})
}
