// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// checkAlterActions iterates ALTER TABLE statements whose table matches
// the scope and calls check for each action. Findings from the callback
// are concatenated in statement order.
func checkAlterActions(
	statements []ir.Located[ir.Node],
	ctx *LintContext,
	scope TableScope,
	check func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding,
) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		at, ok := stmt.Node.(*ir.AlterTable)
		if !ok {
			continue
		}
		if !ctx.TableMatchesScope(at.Name.CatalogKey(), scope) {
			continue
		}
		for _, action := range at.Actions {
			findings = append(findings, check(at, action, stmt.Span)...)
		}
	}
	return findings
}

// checkColumnTypes flags columns whose type matches the predicate, across
// CREATE TABLE, ADD COLUMN, and ALTER COLUMN TYPE.
func checkColumnTypes(
	statements []ir.Located[ir.Node],
	ctx *LintContext,
	rule Rule,
	predicate func(ir.TypeName) bool,
	message func(column string, table ir.QualifiedName, typeName ir.TypeName) string,
) []Finding {
	var findings []Finding
	for _, stmt := range statements {
		switch n := stmt.Node.(type) {
		case *ir.CreateTable:
			for _, col := range n.Columns {
				if predicate(col.TypeName) {
					findings = append(findings, makeFinding(rule, message(col.Name, n.Name, col.TypeName), ctx.File, stmt.Span))
				}
			}
		case *ir.AlterTable:
			for _, action := range n.Actions {
				switch a := action.(type) {
				case *ir.AddColumn:
					if predicate(a.Column.TypeName) {
						findings = append(findings, makeFinding(rule, message(a.Column.Name, n.Name, a.Column.TypeName), ctx.File, stmt.Span))
					}
				case *ir.AlterColumnType:
					if predicate(a.NewType) {
						findings = append(findings, makeFinding(rule, message(a.ColumnName, n.Name, a.NewType), ctx.File, stmt.Span))
					}
				}
			}
		}
	}
	return findings
}

// checkDropColumnConstraints iterates ALTER TABLE ... DROP COLUMN actions
// on pre-existing tables, resolving the table in the pre-unit catalog,
// and calls check with the dropped column and table state.
func checkDropColumnConstraints(
	statements []ir.Located[ir.Node],
	ctx *LintContext,
	check func(column string, at *ir.AlterTable, table *catalog.TableState, span ir.SourceSpan) []Finding,
) []Finding {
	return checkAlterActions(statements, ctx, AnyPreExisting,
		func(at *ir.AlterTable, action ir.AlterTableAction, span ir.SourceSpan) []Finding {
			drop, ok := action.(*ir.DropColumn)
			if !ok {
				return nil
			}
			table := ctx.CatalogBefore.GetTable(at.Name.CatalogKey())
			if table == nil {
				return nil
			}
			return check(drop.Name, at, table, span)
		})
}

// constraintColumns returns the column list of a constraint relevant to
// drop-column checks, resolving USING INDEX columns against the catalog.
func constraintColumns(c ir.TableConstraint, cat *catalog.Catalog) []string {
	switch cn := c.(type) {
	case *ir.PrimaryKeyConstraint:
		if len(cn.Columns) > 0 {
			return cn.Columns
		}
		return indexColumnNames(cat, cn.UsingIndex)
	case *ir.UniqueConstraint:
		if len(cn.Columns) > 0 {
			return cn.Columns
		}
		return indexColumnNames(cat, cn.UsingIndex)
	case *ir.ForeignKeyConstraint:
		return cn.Columns
	default:
		return nil
	}
}

func indexColumnNames(cat *catalog.Catalog, indexName string) []string {
	if indexName == "" {
		return nil
	}
	idx := cat.GetIndex(indexName)
	if idx == nil {
		return nil
	}
	var cols []string
	for _, col := range idx.Columns {
		if !col.IsExpression() {
			cols = append(cols, col.Name)
		}
	}
	return cols
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
