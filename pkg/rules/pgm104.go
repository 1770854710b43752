// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm104 flags money columns.
type pgm104 struct{}

func (pgm104) ID() string                { return "PGM104" }
func (pgm104) DefaultSeverity() Severity { return Minor }
func (pgm104) Description() string       { return "Column uses the money type" }

func (pgm104) Explain() string {
	return `PGM104 — Don't use money

What it detects:
A column declared with the 'money' type.

Why it matters:
The money type's fractional precision and output format depend on the
database's lc_monetary locale setting. The same stored value renders
and rounds differently across environments, and the type does not
record which currency a value is in.

Fix:
Use numeric(p,s) for the amount, with a separate currency column if
multiple currencies are possible.`
}

func (r pgm104) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkColumnTypes(statements, ctx, r,
		func(t ir.TypeName) bool { return t.Name == "money" },
		func(col string, table ir.QualifiedName, _ ir.TypeName) string {
			return fmt.Sprintf("Column '%s' on '%s' uses the 'money' type. The money type depends on the lc_monetary locale setting, making it unreliable across environments. Use numeric(p,s) instead.",
				col, table.DisplayName())
		})
}
