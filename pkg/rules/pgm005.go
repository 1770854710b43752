// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm005 flags tables that substitute UNIQUE NOT NULL for a primary key.
// Fires exactly when PGM004 is suppressed by the substitute.
type pgm005 struct{}

func (pgm005) ID() string                { return "PGM005" }
func (pgm005) DefaultSeverity() Severity { return Info }
func (pgm005) Description() string       { return "UNIQUE NOT NULL used instead of PRIMARY KEY" }

func (pgm005) Explain() string {
	return `PGM005 — UNIQUE NOT NULL used instead of PRIMARY KEY

What it detects:
A table created without a PRIMARY KEY but with a UNIQUE constraint (or
unique index) over NOT NULL columns — a functional primary-key
substitute.

Why it matters:
UNIQUE NOT NULL provides the same uniqueness guarantee, but PRIMARY KEY
is the conventional, explicit way to declare row identity. Tools, ORMs
and logical replication recognize primary keys; they do not always
recognize substitutes.

Fix:
Declare the column(s) as PRIMARY KEY instead, or suppress this rule if
the substitute is intentional.`
}

func (r pgm005) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		ct, ok := stmt.Node.(*ir.CreateTable)
		if !ok || ct.Persistence == ir.Temporary {
			continue
		}

		table := ctx.CatalogAfter.GetTable(ct.Name.CatalogKey())
		if table == nil || table.HasPrimaryKey {
			continue
		}
		if !table.HasUniqueNotNull(ctx.CatalogAfter) {
			continue
		}

		findings = append(findings, makeFinding(r,
			fmt.Sprintf("Table '%s' uses UNIQUE NOT NULL instead of PRIMARY KEY. Functionally equivalent but PRIMARY KEY is conventional and more explicit.",
				ct.Name.DisplayName()),
			ctx.File, stmt.Span))
	}
	return findings
}
