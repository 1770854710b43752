// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm009 flags foreign keys whose referencing table has no covering
// index. The check is order-sensitive: the FK columns must be the
// leading columns of some index. Expression elements count when the FK
// column appears among their referenced columns; partial indexes never
// count because query-time selectivity cannot be proven.
type pgm009 struct{}

func (pgm009) ID() string                { return "PGM009" }
func (pgm009) DefaultSeverity() Severity { return Major }
func (pgm009) Description() string       { return "Foreign key without covering index" }

func (pgm009) Explain() string {
	return `PGM009 — Foreign key without covering index

What it detects:
A FOREIGN KEY constraint (in CREATE TABLE or ADD CONSTRAINT) where the
referencing table has no index whose leading columns cover the foreign
key columns, checked after the whole file has been applied.

Why it matters:
PostgreSQL indexes the referenced side of a foreign key (via the
primary/unique key) but NOT the referencing side. Every DELETE or
UPDATE of a referenced row triggers a scan of the referencing table to
enforce the constraint. Without a covering index, those scans are
sequential — on large tables this turns parent-row deletes into
minutes-long operations holding row locks.

Example (bad):
  ALTER TABLE orders ADD CONSTRAINT fk_customer
    FOREIGN KEY (customer_id) REFERENCES customers (id);
  -- no index on orders (customer_id)

Fix:
  CREATE INDEX CONCURRENTLY idx_orders_customer_id
    ON orders (customer_id);

Partial indexes (with a WHERE clause) do not satisfy this rule — the
planner can only use them when the predicate provably matches.`
}

func (r pgm009) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		switch n := stmt.Node.(type) {
		case *ir.CreateTable:
			for _, c := range n.Constraints {
				if fk, ok := c.(*ir.ForeignKeyConstraint); ok {
					findings = append(findings, r.checkFK(fk, n.Name, ctx, stmt.Span)...)
				}
			}
		case *ir.AlterTable:
			for _, action := range n.Actions {
				add, ok := action.(*ir.AddConstraint)
				if !ok {
					continue
				}
				if fk, ok := add.Constraint.(*ir.ForeignKeyConstraint); ok {
					findings = append(findings, r.checkFK(fk, n.Name, ctx, stmt.Span)...)
				}
			}
		}
	}
	return findings
}

func (r pgm009) checkFK(fk *ir.ForeignKeyConstraint, table ir.QualifiedName, ctx *LintContext, span ir.SourceSpan) []Finding {
	if len(fk.Columns) == 0 {
		return nil
	}
	state := ctx.CatalogAfter.GetTable(table.CatalogKey())
	if state == nil {
		return nil
	}
	for _, idxName := range state.Indexes {
		if idx := ctx.CatalogAfter.GetIndex(idxName); idx != nil && coversColumns(idx, fk.Columns) {
			return nil
		}
	}
	return []Finding{makeFinding(r,
		fmt.Sprintf("Foreign key on '%s' (%s) referencing '%s' has no covering index. Deletes and updates on the referenced table will scan '%s' sequentially.",
			table.DisplayName(), strings.Join(fk.Columns, ", "), fk.RefTable.DisplayName(), table.DisplayName()),
		ctx.File, span)}
}

// coversColumns reports whether the index's leading elements cover the
// given columns in order.
func coversColumns(idx *catalog.IndexState, columns []string) bool {
	if idx.IsPartial || len(idx.Columns) < len(columns) {
		return false
	}
	for i, col := range columns {
		elem := idx.Columns[i]
		if elem.IsExpression() {
			if !containsString(elem.ReferencedColumns, col) {
				return false
			}
			continue
		}
		if elem.Name != col {
			return false
		}
	}
	return true
}
