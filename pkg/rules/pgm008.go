// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm008 flags DROP TABLE / DROP INDEX without IF EXISTS.
type pgm008 struct{}

func (pgm008) ID() string                { return "PGM008" }
func (pgm008) DefaultSeverity() Severity { return Minor }
func (pgm008) Description() string       { return "Missing IF EXISTS on DROP TABLE / DROP INDEX" }

func (pgm008) Explain() string {
	return `PGM008 — Missing IF EXISTS on DROP TABLE / DROP INDEX

What it detects:
A DROP TABLE or DROP INDEX statement that does not include the
IF EXISTS clause.

Why it matters:
Without IF EXISTS, the statement fails if the object does not exist.
In migration pipelines that may be re-run (e.g., idempotent migrations,
manual re-execution after partial failure), this causes hard failures.
Adding IF EXISTS makes the statement idempotent.

Example:
  -- Fails if 'orders' does not exist:
  DROP TABLE orders;
  DROP INDEX idx_orders_status;

Recommended fix:
  DROP TABLE IF EXISTS orders;
  DROP INDEX IF EXISTS idx_orders_status;`
}

func (r pgm008) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		switch n := stmt.Node.(type) {
		case *ir.DropTable:
			if !n.IfExists {
				findings = append(findings, makeFinding(r,
					fmt.Sprintf("DROP TABLE '%s': add IF EXISTS for idempotent migrations.", n.Name.DisplayName()),
					ctx.File, stmt.Span))
			}
		case *ir.DropIndex:
			if !n.IfExists {
				findings = append(findings, makeFinding(r,
					fmt.Sprintf("DROP INDEX '%s': add IF EXISTS for idempotent migrations.", n.IndexName),
					ctx.File, stmt.Span))
			}
		}
	}
	return findings
}
