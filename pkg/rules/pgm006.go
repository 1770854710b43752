// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm006 flags function-call defaults on columns. Known volatile (and
// stable) functions get a table-rewrite warning, nextval gets a
// serial-specific message, and unknown functions get an Info asking the
// developer to verify volatility. Severity is derived per finding.
type pgm006 struct{}

func (pgm006) ID() string                { return "PGM006" }
func (pgm006) DefaultSeverity() Severity { return Minor }
func (pgm006) Description() string       { return "Volatile function default on column" }

func (pgm006) Explain() string {
	return `PGM006 — Volatile function default on column

What it detects:
A column definition (in CREATE TABLE or ADD COLUMN) whose DEFAULT is a
function call. Known volatile functions (now, random, gen_random_uuid,
clock_timestamp, ...) are flagged as warnings; nextval gets a
serial-specific message; functions the analyzer cannot classify get an
informational finding.

Why it's dangerous:
On ADD COLUMN to an existing table, a volatile default forces a full
table rewrite under an ACCESS EXCLUSIVE lock — every existing row must
be physically updated with a computed value. For large tables this
causes extended downtime. Non-volatile defaults are a cheap
catalog-only change on PostgreSQL 11+.

Fix:
Add the column without a default, then backfill with batched UPDATEs,
and set the default afterwards for new rows.`
}

func (r pgm006) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		switch n := stmt.Node.(type) {
		case *ir.CreateTable:
			for _, col := range n.Columns {
				if f := r.checkColumn(col, n.Name, ctx.File, stmt.Span); f != nil {
					findings = append(findings, *f)
				}
			}
		case *ir.AlterTable:
			for _, action := range n.Actions {
				add, ok := action.(*ir.AddColumn)
				if !ok {
					continue
				}
				if f := r.checkColumn(add.Column, n.Name, ctx.File, stmt.Span); f != nil {
					findings = append(findings, *f)
				}
			}
		}
	}
	return findings
}

func (r pgm006) checkColumn(col ir.ColumnDef, table ir.QualifiedName, file string, span ir.SourceSpan) *Finding {
	call, ok := col.DefaultExpr.(*ir.FunctionCallDefault)
	if !ok {
		return nil
	}

	if call.Name == "nextval" {
		f := NewFinding(r.ID(), Minor,
			fmt.Sprintf("Column '%s' on '%s' uses a sequence default (serial/bigserial). This is standard usage — suppress if intentional. Note: on ADD COLUMN to an existing table, this is volatile and forces a table rewrite.",
				col.Name, table.DisplayName()),
			file, span)
		return &f
	}

	volatility, known := LookupVolatility(call.Name)
	switch {
	case known && volatility == VolatilityImmutable:
		// Immutable defaults are a catalog-only change; nothing to flag.
		return nil
	case known:
		f := NewFinding(r.ID(), Minor,
			fmt.Sprintf("Column '%s' on '%s' uses volatile default '%s()'. Unlike non-volatile defaults, this forces a full table rewrite under an ACCESS EXCLUSIVE lock — every existing row must be physically updated with a computed value. For large tables, this causes extended downtime. Consider adding the column without a default, then backfilling with batched UPDATEs.",
				col.Name, table.DisplayName(), call.Name),
			file, span)
		return &f
	default:
		f := NewFinding(r.ID(), Info,
			fmt.Sprintf("Column '%s' on '%s' uses function '%s()' as default. If this function is volatile (the default for user-defined functions), it forces a full table rewrite under an ACCESS EXCLUSIVE lock instead of a cheap catalog-only change. Verify the function's volatility classification.",
				col.Name, table.DisplayName(), call.Name),
			file, span)
		return &f
	}
}
