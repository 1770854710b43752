// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm003 flags CREATE/DROP INDEX CONCURRENTLY inside a transactional
// unit. PostgreSQL rejects concurrent index operations in a transaction
// block, so the migration would fail at deploy time.
type pgm003 struct{}

func (pgm003) ID() string                { return "PGM003" }
func (pgm003) DefaultSeverity() Severity { return Critical }
func (pgm003) Description() string       { return "CONCURRENTLY inside transaction" }

func (pgm003) Explain() string {
	return `PGM003 — CONCURRENTLY inside transaction

What it detects:
A CREATE INDEX CONCURRENTLY or DROP INDEX CONCURRENTLY statement
inside a migration unit that runs in a transaction.

Why it's dangerous:
PostgreSQL does not allow CONCURRENTLY operations inside a
transaction block. The command will fail with:
  ERROR: CREATE INDEX CONCURRENTLY cannot run inside a transaction block
This means the migration will fail at deploy time.

Example (bad — Liquibase changeset with default runInTransaction):
  <changeSet id="1" author="dev">
    <sql>CREATE INDEX CONCURRENTLY idx_foo ON bar (col);</sql>
  </changeSet>

Fix:
  <changeSet id="1" author="dev" runInTransaction="false">
    <sql>CREATE INDEX CONCURRENTLY idx_foo ON bar (col);</sql>
  </changeSet>

For go-migrate, add the framework's no-transaction marker to the
migration file header.`
}

func (r pgm003) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	if !ctx.RunInTransaction {
		return nil
	}

	var findings []Finding
	for _, stmt := range statements {
		concurrent := false
		switch n := stmt.Node.(type) {
		case *ir.CreateIndex:
			concurrent = n.Concurrent
		case *ir.DropIndex:
			concurrent = n.Concurrent
		}
		if !concurrent {
			continue
		}
		findings = append(findings, makeFinding(r,
			`CONCURRENTLY cannot run inside a transaction. Set runInTransaction="false" (Liquibase) or disable transactions for this migration.`,
			ctx.File, stmt.Span))
	}
	return findings
}
