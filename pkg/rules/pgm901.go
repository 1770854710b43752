// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm901 is a meta rule: it labels the down-migration severity cap
// applied by the driver (see CapForDownMigration) and never produces
// findings of its own.
type pgm901 struct{}

func (pgm901) ID() string                { return "PGM901" }
func (pgm901) DefaultSeverity() Severity { return Info }

func (pgm901) Description() string {
	return "Meta rules alter the behavior of other rules, they are not rules themselves"
}

func (pgm901) Explain() string {
	return `PGM901 — Down-migration severity cap

This is a meta rule: it does not inspect statements itself. When a
migration unit is a down/rollback migration, every finding the other
rules produce for that unit is capped to INFO severity. Down
migrations are informational only — they run when something already
went wrong, and blocking a rollback on lint findings would make a bad
situation worse.

PGM901 cannot be triggered directly and never appears in reports.`
}

func (pgm901) Check([]ir.Located[ir.Node], *LintContext) []Finding {
	return nil
}
