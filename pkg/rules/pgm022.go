// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm022 flags DROP TABLE of tables that existed before the change. A
// table created and dropped within the same change set is exempt.
type pgm022 struct{}

func (pgm022) ID() string                { return "PGM022" }
func (pgm022) DefaultSeverity() Severity { return Minor }
func (pgm022) Description() string       { return "DROP TABLE on existing table" }

func (pgm022) Explain() string {
	return `PGM022 — DROP TABLE on existing table

What it detects:
DROP TABLE targeting a table that existed before this change and was
not created within the same set of changed files.

Why it matters:
Dropping a table is irreversible and all data is lost. A table dropped
by mistake cannot be recovered without a backup restore, and any reader
still referencing it fails immediately.

Safer pattern:
Rename the table out of the way (e.g. with a _deprecated suffix), wait
a release to confirm nothing reads it, then drop it.`
}

func (r pgm022) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		dt, ok := stmt.Node.(*ir.DropTable)
		if !ok || !ctx.IsExistingTable(dt.Name.CatalogKey()) {
			continue
		}
		findings = append(findings, makeFinding(r,
			fmt.Sprintf("DROP TABLE '%s' removes an existing table. This is irreversible and all data will be lost.",
				dt.Name.DisplayName()),
			ctx.File, stmt.Span))
	}
	return findings
}
