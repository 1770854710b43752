// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm024 flags CREATE UNLOGGED TABLE.
type pgm024 struct{}

func (pgm024) ID() string                { return "PGM024" }
func (pgm024) DefaultSeverity() Severity { return Minor }
func (pgm024) Description() string       { return "CREATE UNLOGGED TABLE" }

func (pgm024) Explain() string {
	return `PGM024 — CREATE UNLOGGED TABLE

What it detects:
A CREATE UNLOGGED TABLE statement.

Why it matters:
Unlogged tables are not written to the WAL. They are faster, but:
- The table is TRUNCATED on crash recovery — all data is lost after
  any unclean shutdown.
- The table is not replicated to physical standbys, so failover loses
  it entirely.

Unlogged tables are appropriate only for data you can afford to lose
(caches, staging buffers). If that is intentional here, suppress this
finding.`
}

func (r pgm024) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		ct, ok := stmt.Node.(*ir.CreateTable)
		if !ok || ct.Persistence != ir.Unlogged {
			continue
		}
		findings = append(findings, makeFinding(r,
			fmt.Sprintf("CREATE UNLOGGED TABLE '%s'. Unlogged tables are truncated on crash recovery and are not replicated to standbys.",
				ct.Name.DisplayName()),
			ctx.File, stmt.Span))
	}
	return findings
}
