// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm021 is the looser ADD UNIQUE variant: the USING INDEX reference is
// resolved against the pre-unit OR post-unit catalog, so an index
// created earlier in the same unit counts. It reports only what PGM017
// has not already proven, so a statement is not double-reported with the
// same message.
type pgm021 struct{}

func (pgm021) ID() string                { return "PGM021" }
func (pgm021) DefaultSeverity() Severity { return Critical }
func (pgm021) Description() string       { return "ADD UNIQUE USING INDEX with unusable index" }

func (pgm021) Explain() string {
	return `PGM021 — ADD UNIQUE USING INDEX with unusable index

What it detects:
ALTER TABLE ... ADD CONSTRAINT ... UNIQUE USING INDEX on an existing
table where the referenced index — looked up in the catalog before or
after this unit — does not exist or is not UNIQUE.

Why it's dangerous:
USING INDEX with a missing or non-unique index fails at deploy time;
PostgreSQL refuses to attach the constraint. The migration breaks in
production after passing review.

Fix:
Create the unique index first (CONCURRENTLY, in a non-transactional
unit) and reference it by its exact name. See PGM017 for the full safe
pattern.`
}

func (r pgm021) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkAlterActions(statements, ctx, ExcludeCreatedInChange,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			add, ok := action.(*ir.AddConstraint)
			if !ok {
				return nil
			}
			u, ok := add.Constraint.(*ir.UniqueConstraint)
			if !ok || u.UsingIndex == "" {
				// The no-USING-INDEX case is PGM017's finding.
				return nil
			}

			idx := ctx.CatalogBefore.GetIndex(u.UsingIndex)
			if idx == nil {
				idx = ctx.CatalogAfter.GetIndex(u.UsingIndex)
			}
			// When the index exists in the pre-unit catalog, PGM017
			// already judged it (including the btree check).
			if ctx.CatalogBefore.GetIndex(u.UsingIndex) != nil {
				return nil
			}

			table := at.Name.DisplayName()
			var message string
			switch {
			case idx == nil:
				message = fmt.Sprintf("ADD UNIQUE USING INDEX '%s' on table '%s': referenced index does not exist.", u.UsingIndex, table)
			case !idx.Unique:
				message = fmt.Sprintf("ADD UNIQUE USING INDEX '%s' on table '%s': referenced index is not UNIQUE.", u.UsingIndex, table)
			default:
				return nil
			}
			return []Finding{makeFinding(r, message, ctx.File, span)}
		})
}
