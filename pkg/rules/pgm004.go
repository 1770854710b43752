// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm004 flags non-temporary CREATE TABLE statements that leave the table
// without a primary key. The check reads the catalog state after the
// whole file, so ADD PRIMARY KEY later in the same file avoids a false
// positive. Suppressed when a UNIQUE NOT NULL substitute is present
// (PGM005 fires instead) and for partition children covered by their
// parent's key.
type pgm004 struct{}

func (pgm004) ID() string                { return "PGM004" }
func (pgm004) DefaultSeverity() Severity { return Major }
func (pgm004) Description() string       { return "Table without primary key" }

func (pgm004) Explain() string {
	return `PGM004 — Table without primary key

What it detects:
A CREATE TABLE statement (non-temporary) that does not define a
PRIMARY KEY constraint, and no ALTER TABLE ... ADD PRIMARY KEY
follows in the same file.

Why it's dangerous:
Tables without primary keys:
- Cannot be reliably targeted by logical replication.
- May cause issues with ORMs that require a PK for identity.
- Make it harder to deduplicate or reference specific rows.
- Are a strong code smell indicating incomplete schema design.

Example (bad):
  CREATE TABLE events (event_type text, payload jsonb);

Fix:
  CREATE TABLE events (
    id bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    event_type text,
    payload jsonb
  );

Note: Temporary tables are excluded. Partition children are excluded
when the parent has a primary key or is unknown to the analyzer. If
PGM005 fires (UNIQUE NOT NULL used instead of PK), PGM004 does NOT
fire for the same table.`
}

func (r pgm004) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		ct, ok := stmt.Node.(*ir.CreateTable)
		if !ok || ct.Persistence == ir.Temporary {
			continue
		}
		if ctx.PartitionChildInheritsPK(ct.PartitionOf) {
			continue
		}

		table := ctx.CatalogAfter.GetTable(ct.Name.CatalogKey())
		if table == nil || table.HasPrimaryKey {
			continue
		}
		if table.HasUniqueNotNull(ctx.CatalogAfter) {
			// PGM005 reports the UNIQUE NOT NULL substitute instead.
			continue
		}

		findings = append(findings, makeFinding(r,
			fmt.Sprintf("Table '%s' has no primary key.", ct.Name.DisplayName()),
			ctx.File, stmt.Span))
	}
	return findings
}
