// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm101 flags columns using timestamp without time zone.
type pgm101 struct{}

func (pgm101) ID() string                { return "PGM101" }
func (pgm101) DefaultSeverity() Severity { return Minor }
func (pgm101) Description() string       { return "Column uses timestamp without time zone" }

func (pgm101) Explain() string {
	return `PGM101 — Don't use timestamp (without time zone)

What it detects:
A column declared as 'timestamp' (i.e. timestamp without time zone) in
CREATE TABLE, ADD COLUMN, or ALTER COLUMN TYPE.

Why it matters:
'timestamp' stores a wall-clock reading with no time zone information.
The same value means different instants depending on the session's
TimeZone setting, which breaks arithmetic across DST changes and makes
data ambiguous when servers or clients span time zones.

Fix:
Use 'timestamptz' (timestamp with time zone). It stores an unambiguous
instant (UTC internally) and converts on display.`
}

func (r pgm101) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkColumnTypes(statements, ctx, r,
		func(t ir.TypeName) bool { return t.Name == "timestamp" },
		func(col string, table ir.QualifiedName, _ ir.TypeName) string {
			return fmt.Sprintf("Column '%s' on '%s' uses 'timestamp without time zone'. Use 'timestamptz' (timestamp with time zone) instead to store unambiguous points in time.",
				col, table.DisplayName())
		})
}
