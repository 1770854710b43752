// SPDX-License-Identifier: Apache-2.0

package sql2ir

import (
	"sort"

	pgq "github.com/xataio/pg_query_go/v6"
)

// extractColumnRefs walks an expression tree and collects the plain
// column references it mentions, skipping constants, operators,
// function-call wrappers, casts, CASE/COALESCE/GREATEST/LEAST, boolean
// expressions, and null tests. The result is sorted and deduplicated so
// it is deterministic regardless of expression shape.
func extractColumnRefs(expr *pgq.Node) []string {
	seen := map[string]struct{}{}
	walkColumnRefs(expr, seen)

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func walkColumnRefs(expr *pgq.Node, seen map[string]struct{}) {
	if expr == nil {
		return
	}

	switch node := expr.GetNode().(type) {
	case *pgq.Node_ColumnRef:
		// Dotted references reduce to the column component.
		fields := node.ColumnRef.GetFields()
		if len(fields) == 0 {
			return
		}
		if s := fields[len(fields)-1].GetString_(); s != nil {
			seen[s.GetSval()] = struct{}{}
		}
	case *pgq.Node_FuncCall:
		for _, arg := range node.FuncCall.GetArgs() {
			walkColumnRefs(arg, seen)
		}
	case *pgq.Node_TypeCast:
		walkColumnRefs(node.TypeCast.GetArg(), seen)
	case *pgq.Node_AExpr:
		walkColumnRefs(node.AExpr.GetLexpr(), seen)
		walkColumnRefs(node.AExpr.GetRexpr(), seen)
	case *pgq.Node_BoolExpr:
		for _, arg := range node.BoolExpr.GetArgs() {
			walkColumnRefs(arg, seen)
		}
	case *pgq.Node_NullTest:
		walkColumnRefs(node.NullTest.GetArg(), seen)
	case *pgq.Node_CaseExpr:
		walkColumnRefs(node.CaseExpr.GetArg(), seen)
		for _, when := range node.CaseExpr.GetArgs() {
			if w := when.GetCaseWhen(); w != nil {
				walkColumnRefs(w.GetExpr(), seen)
				walkColumnRefs(w.GetResult(), seen)
			}
		}
		walkColumnRefs(node.CaseExpr.GetDefresult(), seen)
	case *pgq.Node_CoalesceExpr:
		for _, arg := range node.CoalesceExpr.GetArgs() {
			walkColumnRefs(arg, seen)
		}
	case *pgq.Node_MinMaxExpr:
		for _, arg := range node.MinMaxExpr.GetArgs() {
			walkColumnRefs(arg, seen)
		}
	case *pgq.Node_List:
		for _, item := range node.List.GetItems() {
			walkColumnRefs(item, seen)
		}
	}
}
