// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm002 flags DROP INDEX without CONCURRENTLY. Partitioned parents get a
// dedicated message because DROP INDEX CONCURRENTLY is not supported
// there; pure ON ONLY stubs are safe to drop and are skipped.
type pgm002 struct{}

func (pgm002) ID() string                { return "PGM002" }
func (pgm002) DefaultSeverity() Severity { return Critical }
func (pgm002) Description() string       { return "Missing CONCURRENTLY on DROP INDEX" }

func (pgm002) Explain() string {
	return `PGM002 — Missing CONCURRENTLY on DROP INDEX

What it detects:
A DROP INDEX statement that does not use the CONCURRENTLY option,
where the index belongs to a table that already exists in the database.

Why it's dangerous:
Without CONCURRENTLY, PostgreSQL acquires an ACCESS EXCLUSIVE lock on
the table associated with the index for the duration of the drop
operation. This blocks ALL queries — reads and writes — on the table.
While DROP INDEX is usually fast, it still briefly blocks concurrent
access and can queue behind long-running queries, amplifying the impact.

Example (bad):
  DROP INDEX idx_orders_status;

Fix:
  DROP INDEX CONCURRENTLY idx_orders_status;

Note: CONCURRENTLY cannot run inside a transaction. If your migration
framework wraps each file in a transaction, you must disable that.
See PGM003.

Partitioned tables:
PostgreSQL does NOT support DROP INDEX CONCURRENTLY on partitioned
parent indexes. Dropping a partitioned parent index acquires locks on
all partitions. However, dropping an ON ONLY index (before child
indexes are attached) is safe — it only affects the invalid parent stub.

Safe pattern for partitioned indexes:
  1. CREATE INDEX ON ONLY parent_table (col);     -- parent stub
  2. CREATE INDEX CONCURRENTLY ON child (col);    -- per-child
  3. ALTER INDEX idx_parent ATTACH PARTITION idx_child;
  -- To remove: reverse the process before dropping the parent.`
}

func (r pgm002) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		di, ok := stmt.Node.(*ir.DropIndex)
		if !ok || di.Concurrent {
			continue
		}

		tableKey := ctx.CatalogBefore.TableForIndex(di.IndexName)
		if tableKey == "" {
			continue
		}
		if _, created := ctx.TablesCreatedInChange[tableKey]; created {
			continue
		}

		table := ctx.CatalogBefore.GetTable(tableKey)
		displayName := tableKey
		isPartitioned := false
		if table != nil {
			displayName = table.DisplayName
			isPartitioned = table.IsPartitioned
		}
		idxIsOnly := false
		if idx := ctx.CatalogBefore.GetIndex(di.IndexName); idx != nil {
			idxIsOnly = idx.Only
		}

		switch {
		case isPartitioned && idxIsOnly:
			// ON ONLY stub on a partitioned parent only affects the
			// invalid parent stub; dropping it is safe.
		case isPartitioned:
			findings = append(findings, makeFinding(r,
				fmt.Sprintf("DROP INDEX '%s' on partitioned table '%s' will lock all partitions. CONCURRENTLY is not supported for partitioned parent indexes.",
					di.IndexName, displayName),
				ctx.File, stmt.Span))
		default:
			findings = append(findings, makeFinding(r,
				fmt.Sprintf("DROP INDEX '%s' on existing table '%s' should use CONCURRENTLY to avoid holding an exclusive lock.",
					di.IndexName, displayName),
				ctx.File, stmt.Span))
		}
	}
	return findings
}
