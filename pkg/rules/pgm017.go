// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm017 flags ADD UNIQUE on existing tables unless the constraint is
// backed by a pre-existing unique btree index via USING INDEX. The index
// is resolved against the pre-unit catalog; PGM021 is the looser variant
// that also accepts indexes created in the same unit.
type pgm017 struct{}

func (pgm017) ID() string                { return "PGM017" }
func (pgm017) DefaultSeverity() Severity { return Critical }
func (pgm017) Description() string       { return "ADD UNIQUE on existing table without USING INDEX" }

func (pgm017) Explain() string {
	return `PGM017 — ADD UNIQUE on existing table without USING INDEX

What it detects:
ALTER TABLE ... ADD CONSTRAINT ... UNIQUE on an existing table where
the constraint is not backed by a pre-existing unique btree index via
the USING INDEX clause — or where the referenced index does not exist,
is not unique, or is not a btree index.

Why it's dangerous:
Without USING INDEX, PostgreSQL builds a brand-new unique index inside
the same ACCESS EXCLUSIVE lock, scanning the whole table while all
access is blocked.

Safe pattern:
  1. CREATE UNIQUE INDEX CONCURRENTLY uq_idx ON t (col);
  2. ALTER TABLE t ADD CONSTRAINT uq UNIQUE USING INDEX uq_idx;
Only btree indexes can back a UNIQUE constraint.`
}

func (r pgm017) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkAlterActions(statements, ctx, ExcludeCreatedInChange,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			add, ok := action.(*ir.AddConstraint)
			if !ok {
				return nil
			}
			u, ok := add.Constraint.(*ir.UniqueConstraint)
			if !ok {
				return nil
			}

			table := at.Name.DisplayName()
			var message string
			if u.UsingIndex == "" {
				message = fmt.Sprintf("ADD UNIQUE on existing table '%s' without USING INDEX on column(s) [%s]. Create a unique index CONCURRENTLY first, then use ADD CONSTRAINT ... UNIQUE USING INDEX.",
					table, strings.Join(u.Columns, ", "))
			} else {
				idx := ctx.CatalogBefore.GetIndex(u.UsingIndex)
				switch {
				case idx == nil:
					message = fmt.Sprintf("ADD UNIQUE USING INDEX '%s' on table '%s': referenced index does not exist.", u.UsingIndex, table)
				case !idx.Unique:
					message = fmt.Sprintf("ADD UNIQUE USING INDEX '%s' on table '%s': referenced index is not UNIQUE.", u.UsingIndex, table)
				case !idx.IsBtree():
					message = fmt.Sprintf("ADD UNIQUE USING INDEX '%s' on table '%s': referenced index uses access method '%s', but only btree indexes can back a UNIQUE constraint.",
						u.UsingIndex, table, idx.AccessMethod)
				default:
					return nil
				}
			}
			return []Finding{makeFinding(r, message, ctx.File, span)}
		})
}
