// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm018 flags two full-scan hazards on existing tables: ADD CHECK
// without NOT VALID (Critical) and CLUSTER (Minor). Severity is derived
// per finding.
type pgm018 struct{}

func (pgm018) ID() string                { return "PGM018" }
func (pgm018) DefaultSeverity() Severity { return Critical }
func (pgm018) Description() string       { return "ADD CHECK without NOT VALID, or CLUSTER" }

func (pgm018) Explain() string {
	return `PGM018 — ADD CHECK without NOT VALID, or CLUSTER

What it detects:
Two operations that scan or rewrite an existing table under heavy
locks:
- ALTER TABLE ... ADD CONSTRAINT ... CHECK without NOT VALID: validates
  every existing row while holding an ACCESS EXCLUSIVE lock (Critical).
- CLUSTER: rewrites the entire table under an ACCESS EXCLUSIVE lock for
  the full duration (Minor).

Safe pattern for CHECK constraints:
  1. ALTER TABLE t ADD CONSTRAINT c CHECK (...) NOT VALID;  -- instant
  2. ALTER TABLE t VALIDATE CONSTRAINT c;  -- SHARE UPDATE EXCLUSIVE
New rows are checked from step 1; step 2 validates existing rows
without blocking writes.

CLUSTER is rarely appropriate in an online migration; if physical
reordering is needed, consider pg_repack.`
}

func (r pgm018) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding

	findings = append(findings, checkAlterActions(statements, ctx, ExcludeCreatedInChange,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			add, ok := action.(*ir.AddConstraint)
			if !ok {
				return nil
			}
			check, ok := add.Constraint.(*ir.CheckConstraint)
			if !ok || check.NotValid {
				return nil
			}
			return []Finding{NewFinding(r.ID(), Critical,
				fmt.Sprintf("ADD CHECK on existing table '%s' without NOT VALID validates every row under an ACCESS EXCLUSIVE lock. Add the constraint NOT VALID, then VALIDATE CONSTRAINT separately.",
					at.Name.DisplayName()),
				ctx.File, span)}
		})...)

	for _, stmt := range statements {
		c, ok := stmt.Node.(*ir.Cluster)
		if !ok || !ctx.IsExistingTable(c.Table.CatalogKey()) {
			continue
		}
		using := ""
		if c.Index != "" {
			using = fmt.Sprintf(" USING '%s'", c.Index)
		}
		findings = append(findings, NewFinding(r.ID(), Minor,
			fmt.Sprintf("CLUSTER on table '%s'%s rewrites the entire table under ACCESS EXCLUSIVE lock for the full duration. All reads and writes are blocked. This is rarely appropriate in an online migration.",
				c.Table.DisplayName(), using),
			ctx.File, stmt.Span))
	}

	return findings
}
