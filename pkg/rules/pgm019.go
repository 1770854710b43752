// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm019 flags RENAME TABLE and RENAME COLUMN on existing tables. The
// rename itself is instant; everything still using the old name breaks.
type pgm019 struct{}

func (pgm019) ID() string                { return "PGM019" }
func (pgm019) DefaultSeverity() Severity { return Info }
func (pgm019) Description() string       { return "RENAME on existing table" }

func (pgm019) Explain() string {
	return `PGM019 — RENAME on existing table

What it detects:
ALTER TABLE ... RENAME TO and ALTER TABLE ... RENAME COLUMN on a table
that existed before this change.

Why it matters:
The rename is a fast catalog-only change, but every query, view
definition text, and application release still using the old name
fails the moment the migration commits. Zero-downtime deploys cannot
have an instant where all readers switch names.

Safer pattern:
Create a view or updatable alias under the old name during the
transition, or stage the rename across releases (add new, migrate
readers, drop old).`
}

func (r pgm019) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		switch n := stmt.Node.(type) {
		case *ir.RenameTable:
			if !ctx.IsExistingTable(n.Name.CatalogKey()) {
				continue
			}
			findings = append(findings, makeFinding(r,
				fmt.Sprintf("Renaming existing table '%s' to '%s' will break queries referencing the old name.",
					n.Name.DisplayName(), n.NewName),
				ctx.File, stmt.Span))
		case *ir.RenameColumn:
			if !ctx.IsExistingTable(n.Table.CatalogKey()) {
				continue
			}
			findings = append(findings, makeFinding(r,
				fmt.Sprintf("Renaming column '%s' to '%s' on existing table '%s' will break queries referencing the old column name.",
					n.OldName, n.NewName, n.Table.DisplayName()),
				ctx.File, stmt.Span))
		}
	}
	return findings
}
