// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// pgm108 flags json columns; jsonb is almost always the better choice.
type pgm108 struct{}

func (pgm108) ID() string                { return "PGM108" }
func (pgm108) DefaultSeverity() Severity { return Minor }
func (pgm108) Description() string       { return "Column uses json type instead of jsonb" }

func (pgm108) Explain() string {
	return `PGM108 — Don't use json (prefer jsonb)

What it detects:
A column declared with the 'json' type.

Why it matters:
json stores the input text verbatim and reparses it on every access.
jsonb stores a decomposed binary form: it is faster to process,
supports indexing (GIN) and containment operators, and deduplicates
keys.

Fix:
Use jsonb. Only keep json when the exact text representation — key
order, duplicate keys, whitespace — must be preserved.`
}

func (r pgm108) Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding {
	return checkColumnTypes(statements, ctx, r,
		func(t ir.TypeName) bool { return t.Name == "json" },
		func(col string, table ir.QualifiedName, _ ir.TypeName) string {
			return fmt.Sprintf("Column '%s' on '%s' uses 'json'. Use 'jsonb' instead — it's faster, smaller, indexable, and supports containment operators. Only use 'json' if you need to preserve exact text representation or key order.",
				col, table.DisplayName())
		})
}
