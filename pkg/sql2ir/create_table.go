// SPDX-License-Identifier: Apache-2.0

package sql2ir

import (
	pgq "github.com/xataio/pg_query_go/v6"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// convertCreateTable lowers a CreateStmt into an ir.CreateTable, lifting
// inline column constraints into the table-level constraint list.
func convertCreateTable(stmt *pgq.CreateStmt) ir.Node {
	name := relationName(stmt.GetRelation())

	ct := &ir.CreateTable{
		Name:        name,
		Persistence: convertPersistence(stmt.GetRelation().GetRelpersistence()),
		IfNotExists: stmt.GetIfNotExists(),
	}

	if spec := stmt.GetPartspec(); spec != nil {
		ct.PartitionBy = convertPartitionSpec(spec)
	}

	// CREATE TABLE ... PARTITION OF parent: the parent is the sole
	// inheritance relation and a partition bound is present.
	if stmt.GetPartbound() != nil && len(stmt.GetInhRelations()) == 1 {
		parent := relationName(stmt.GetInhRelations()[0].GetRangeVar())
		ct.PartitionOf = &parent
	}

	for _, elt := range stmt.GetTableElts() {
		switch e := elt.GetNode().(type) {
		case *pgq.Node_ColumnDef:
			col, lifted := convertColumnDef(e.ColumnDef)
			ct.Columns = append(ct.Columns, col)
			ct.Constraints = append(ct.Constraints, lifted...)
		case *pgq.Node_Constraint:
			if c := convertTableConstraint(e.Constraint); c != nil {
				ct.Constraints = append(ct.Constraints, c)
			}
		}
	}

	return ct
}

func convertPersistence(relpersistence string) ir.TablePersistence {
	switch relpersistence {
	case "u":
		return ir.Unlogged
	case "t":
		return ir.Temporary
	default:
		return ir.Permanent
	}
}

func convertPartitionSpec(spec *pgq.PartitionSpec) *ir.PartitionBy {
	var strategy ir.PartitionStrategy
	switch spec.GetStrategy() {
	case pgq.PartitionStrategy_PARTITION_STRATEGY_LIST:
		strategy = ir.PartitionByList
	case pgq.PartitionStrategy_PARTITION_STRATEGY_HASH:
		strategy = ir.PartitionByHash
	default:
		strategy = ir.PartitionByRange
	}

	var columns []string
	for _, param := range spec.GetPartParams() {
		if name := param.GetPartitionElem().GetName(); name != "" {
			columns = append(columns, name)
		}
	}

	return &ir.PartitionBy{Strategy: strategy, Columns: columns}
}

// convertColumnDef lowers a column definition. Inline constraints (PRIMARY
// KEY, UNIQUE, CHECK, REFERENCES) are returned as lifted table-level
// constraints; NOT NULL and DEFAULT stay on the column.
func convertColumnDef(col *pgq.ColumnDef) (ir.ColumnDef, []ir.TableConstraint) {
	typeName, isSerial := convertTypeName(col.GetTypeName())

	out := ir.ColumnDef{
		Name:     col.GetColname(),
		TypeName: typeName,
		Nullable: true,
		IsSerial: isSerial,
	}
	if isSerial {
		out.DefaultExpr = &ir.FunctionCallDefault{Name: "nextval"}
	}

	var lifted []ir.TableConstraint
	for _, c := range col.GetConstraints() {
		constraint := c.GetConstraint()
		if constraint == nil {
			continue
		}
		switch constraint.GetContype() {
		case pgq.ConstrType_CONSTR_NULL:
			out.Nullable = true
		case pgq.ConstrType_CONSTR_NOTNULL:
			out.Nullable = false
		case pgq.ConstrType_CONSTR_DEFAULT:
			if expr := constraint.GetRawExpr(); expr != nil {
				out.DefaultExpr = convertDefaultExpr(expr)
			}
		case pgq.ConstrType_CONSTR_PRIMARY:
			out.IsInlinePK = true
			out.Nullable = false
			lifted = append(lifted, &ir.PrimaryKeyConstraint{
				Columns: []string{col.GetColname()},
			})
		case pgq.ConstrType_CONSTR_UNIQUE:
			lifted = append(lifted, &ir.UniqueConstraint{
				Name:    constraint.GetConname(),
				Columns: []string{col.GetColname()},
			})
		case pgq.ConstrType_CONSTR_CHECK:
			expr := deparseExpr(constraint.GetRawExpr())
			lifted = append(lifted, &ir.CheckConstraint{
				Name:       constraint.GetConname(),
				Expression: expr,
				NotValid:   constraint.GetSkipValidation(),
			})
		case pgq.ConstrType_CONSTR_FOREIGN:
			lifted = append(lifted, &ir.ForeignKeyConstraint{
				Name:       constraint.GetConname(),
				Columns:    []string{col.GetColname()},
				RefTable:   relationName(constraint.GetPktable()),
				RefColumns: stringList(constraint.GetPkAttrs()),
				NotValid:   constraint.GetSkipValidation(),
			})
		}
	}

	return out, lifted
}

// convertTableConstraint lowers a table-level constraint. Returns nil for
// constraint kinds the linter does not model (EXCLUDE, ...).
func convertTableConstraint(constraint *pgq.Constraint) ir.TableConstraint {
	switch constraint.GetContype() {
	case pgq.ConstrType_CONSTR_PRIMARY:
		return &ir.PrimaryKeyConstraint{
			// USING INDEX leaves the column list empty; the catalog
			// derives columns from the referenced index.
			Columns:    stringList(constraint.GetKeys()),
			UsingIndex: constraint.GetIndexname(),
		}
	case pgq.ConstrType_CONSTR_FOREIGN:
		return &ir.ForeignKeyConstraint{
			Name:       constraint.GetConname(),
			Columns:    stringList(constraint.GetFkAttrs()),
			RefTable:   relationName(constraint.GetPktable()),
			RefColumns: stringList(constraint.GetPkAttrs()),
			NotValid:   constraint.GetSkipValidation(),
		}
	case pgq.ConstrType_CONSTR_UNIQUE:
		return &ir.UniqueConstraint{
			Name:       constraint.GetConname(),
			Columns:    stringList(constraint.GetKeys()),
			UsingIndex: constraint.GetIndexname(),
		}
	case pgq.ConstrType_CONSTR_CHECK:
		return &ir.CheckConstraint{
			Name:       constraint.GetConname(),
			Expression: deparseExpr(constraint.GetRawExpr()),
			NotValid:   constraint.GetSkipValidation(),
		}
	default:
		return nil
	}
}

// stringList extracts the string values from a list of String nodes.
func stringList(nodes []*pgq.Node) []string {
	var out []string
	for _, n := range nodes {
		if s := n.GetString_(); s != nil {
			out = append(out, s.GetSval())
		}
	}
	return out
}
