// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm020 flags DISABLE TRIGGER actions. The three scopes (named, ALL,
// USER) get distinct messages; severity is Minor on pre-existing tables
// and Info elsewhere.
type pgm020 struct{}

func (pgm020) ID() string                { return "PGM020" }
func (pgm020) DefaultSeverity() Severity { return Minor }
func (pgm020) Description() string       { return "DISABLE TRIGGER on table suppresses FK enforcement" }

func (pgm020) Explain() string {
	return `PGM020 — DISABLE TRIGGER on table suppresses enforcement

What it detects:
ALTER TABLE ... DISABLE TRIGGER in any of its three forms: a named
trigger, ALL, or USER.

Why it matters:
- DISABLE TRIGGER ALL suppresses every trigger including the system
  triggers that enforce foreign keys — referential integrity is gone
  until re-enabled.
- DISABLE TRIGGER USER suppresses user-defined triggers; business
  logic they implement is skipped.
- Disabling a named trigger skips whatever that trigger enforces.

If the migration does not re-enable the trigger in the same unit, the
guarantee is silently lost in production.`
}

func (r pgm020) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		at, ok := stmt.Node.(*ir.AlterTable)
		if !ok {
			continue
		}

		severity := Info
		if ctx.IsExistingTable(at.Name.CatalogKey()) {
			severity = r.DefaultSeverity()
		}

		for _, action := range at.Actions {
			disable, ok := action.(*ir.DisableTrigger)
			if !ok {
				continue
			}
			var label, detail string
			switch disable.Scope {
			case ir.TriggerAll:
				label = "ALL"
				detail = "suppresses all triggers including foreign key enforcement. If this is not re-enabled in the same migration, referential integrity guarantees are lost."
			case ir.TriggerUser:
				label = "USER"
				detail = "suppresses user-defined triggers (FK enforcement triggers are not affected). If this is not re-enabled in the same migration, business logic guarantees are lost."
			default:
				label = fmt.Sprintf("'%s'", disable.Name)
				detail = "suppresses the named trigger. If this trigger enforces business logic and is not re-enabled in the same migration, those guarantees are lost."
			}
			findings = append(findings, NewFinding(r.ID(), severity,
				fmt.Sprintf("DISABLE TRIGGER %s on table '%s' %s", label, at.Name.DisplayName(), detail),
				ctx.File, stmt.Span))
		}
	}
	return findings
}
