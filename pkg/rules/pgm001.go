// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm001 flags CREATE INDEX without CONCURRENTLY on existing tables.
// Without CONCURRENTLY, PostgreSQL holds an ACCESS EXCLUSIVE lock on the
// table for the duration of the index build.
type pgm001 struct{}

func (pgm001) ID() string                { return "PGM001" }
func (pgm001) DefaultSeverity() Severity { return Critical }
func (pgm001) Description() string       { return "Missing CONCURRENTLY on CREATE INDEX" }

func (pgm001) Explain() string {
	return `PGM001 — Missing CONCURRENTLY on CREATE INDEX

What it detects:
A CREATE INDEX statement that does not use the CONCURRENTLY option,
targeting a table that already exists in the database (i.e., the table
was not created in the same set of changed files).

Why it's dangerous:
Without CONCURRENTLY, PostgreSQL acquires an ACCESS EXCLUSIVE lock on
the table for the entire duration of the index build. This blocks ALL
queries — reads and writes — on the table. For large tables, index
creation can take minutes or hours, causing extended downtime.

Example (bad):
  CREATE INDEX idx_orders_status ON orders (status);

Fix:
  CREATE INDEX CONCURRENTLY idx_orders_status ON orders (status);

Note: CONCURRENTLY cannot run inside a transaction. If your migration
framework wraps each file in a transaction (e.g., Liquibase default),
you must also disable that. See PGM003.

This rule does NOT fire when the table is created in the same set of
changed files, because locking an empty/new table is harmless.`
}

func (r pgm001) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		ci, ok := stmt.Node.(*ir.CreateIndex)
		if !ok || ci.Concurrent {
			continue
		}
		if !ctx.IsExistingTable(ci.TableName.CatalogKey()) {
			continue
		}
		findings = append(findings, makeFinding(r,
			fmt.Sprintf("CREATE INDEX on existing table '%s' should use CONCURRENTLY to avoid holding an exclusive lock.",
				ci.TableName.DisplayName()),
			ctx.File, stmt.Span))
	}
	return findings
}
