// SPDX-License-Identifier: Apache-2.0

package sql2ir

import (
	"strings"

	pgq "github.com/xataio/pg_query_go/v6"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// serialTypes maps the serial pseudo-types to their underlying integer
// types, per PostgreSQL's own expansion.
var serialTypes = map[string]string{
	"serial":      "int4",
	"bigserial":   "int8",
	"smallserial": "int2",
}

// convertTypeName canonicalizes a type: the last identifier of the
// qualified name, lowercased, with serial types mapped to their integer
// equivalents. The second return value reports whether the declared type
// was a serial pseudo-type.
func convertTypeName(typeName *pgq.TypeName) (ir.TypeName, bool) {
	if typeName == nil {
		return ir.SimpleType(""), false
	}

	name := ""
	if names := typeName.GetNames(); len(names) > 0 {
		name = strings.ToLower(names[len(names)-1].GetString_().GetSval())
	}

	isSerial := false
	if base, ok := serialTypes[name]; ok {
		name = base
		isSerial = true
	}

	var modifiers []int64
	for _, mod := range typeName.GetTypmods() {
		if c := mod.GetAConst(); c != nil {
			if ival, ok := c.GetVal().(*pgq.A_Const_Ival); ok {
				modifiers = append(modifiers, int64(ival.Ival.GetIval()))
			}
		}
	}

	return ir.TypeName{Name: name, Modifiers: modifiers}, isSerial
}
