// SPDX-License-Identifier: Apache-2.0

package sql2ir

import (
	"strconv"
	"strings"

	pgq "github.com/xataio/pg_query_go/v6"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// convertDefaultExpr lowers a column DEFAULT expression.
//
// Constants become LiteralDefault with canonicalized text (booleans as
// "true"/"false", NULL as "NULL"). Function calls — including the
// CURRENT_TIMESTAMP family, which parses as SQLValueFunction — become
// FunctionCallDefault with the last name component lowercased. Everything
// else (casts, operators) becomes OtherDefault with the deparsed SQL.
func convertDefaultExpr(expr *pgq.Node) ir.DefaultExpr {
	switch node := expr.GetNode().(type) {
	case *pgq.Node_AConst:
		return &ir.LiteralDefault{Value: constText(node.AConst)}
	case *pgq.Node_FuncCall:
		names := node.FuncCall.GetFuncname()
		name := ""
		if len(names) > 0 {
			name = strings.ToLower(names[len(names)-1].GetString_().GetSval())
		}
		var args []string
		for _, arg := range node.FuncCall.GetArgs() {
			args = append(args, deparseExpr(arg))
		}
		return &ir.FunctionCallDefault{Name: name, Args: args}
	case *pgq.Node_SqlvalueFunction:
		if name := sqlValueFunctionName(node.SqlvalueFunction.GetOp()); name != "" {
			return &ir.FunctionCallDefault{Name: name}
		}
		return &ir.OtherDefault{SQL: deparseExpr(expr)}
	default:
		return &ir.OtherDefault{SQL: deparseExpr(expr)}
	}
}

func constText(c *pgq.A_Const) string {
	if c.GetIsnull() {
		return "NULL"
	}
	switch v := c.GetVal().(type) {
	case *pgq.A_Const_Sval:
		return v.Sval.GetSval()
	case *pgq.A_Const_Ival:
		return strconv.FormatInt(int64(v.Ival.GetIval()), 10)
	case *pgq.A_Const_Fval:
		return v.Fval.GetFval()
	case *pgq.A_Const_Boolval:
		return strconv.FormatBool(v.Boolval.GetBoolval())
	case *pgq.A_Const_Bsval:
		return v.Bsval.GetBsval()
	default:
		return ""
	}
}

// sqlValueFunctionName maps keyword-style value functions to the catalog
// function names the volatility table knows about.
func sqlValueFunctionName(op pgq.SQLValueFunctionOp) string {
	switch op {
	case pgq.SQLValueFunctionOp_SVFOP_CURRENT_TIMESTAMP,
		pgq.SQLValueFunctionOp_SVFOP_CURRENT_TIMESTAMP_N:
		return "current_timestamp"
	case pgq.SQLValueFunctionOp_SVFOP_CURRENT_DATE:
		return "current_date"
	case pgq.SQLValueFunctionOp_SVFOP_CURRENT_TIME,
		pgq.SQLValueFunctionOp_SVFOP_CURRENT_TIME_N:
		return "current_time"
	case pgq.SQLValueFunctionOp_SVFOP_LOCALTIMESTAMP,
		pgq.SQLValueFunctionOp_SVFOP_LOCALTIMESTAMP_N:
		return "localtimestamp"
	case pgq.SQLValueFunctionOp_SVFOP_LOCALTIME,
		pgq.SQLValueFunctionOp_SVFOP_LOCALTIME_N:
		return "localtime"
	default:
		return ""
	}
}

// deparseExpr renders an expression subtree back to SQL text. The parser
// fork exposes a version-linked expression deparser, so no anchor-parse
// splicing is needed. Deparse failures degrade to an empty string rather
// than aborting conversion.
func deparseExpr(expr *pgq.Node) string {
	if expr == nil {
		return ""
	}
	sql, err := pgq.DeparseExpr(expr)
	if err != nil {
		return ""
	}
	return sql
}
