// SPDX-License-Identifier: Apache-2.0

package sql2ir

import (
	"fmt"

	pgq "github.com/xataio/pg_query_go/v6"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// convertAlterTable lowers an AlterTableStmt. ALTER INDEX ... ATTACH
// PARTITION arrives as an AlterTableStmt with an index object type and is
// lowered to its own node kind.
func convertAlterTable(stmt *pgq.AlterTableStmt, rawSQL string) ir.Node {
	if stmt.GetObjtype() == pgq.ObjectType_OBJECT_INDEX {
		return convertAlterIndex(stmt, rawSQL)
	}
	if stmt.GetObjtype() != pgq.ObjectType_OBJECT_TABLE {
		return &ir.Ignored{RawSQL: rawSQL}
	}

	at := &ir.AlterTable{Name: relationName(stmt.GetRelation())}

	for _, cmd := range stmt.GetCmds() {
		alterCmd := cmd.GetAlterTableCmd()
		if alterCmd == nil {
			continue
		}
		at.Actions = append(at.Actions, convertAlterTableCmd(alterCmd)...)
	}

	return at
}

// convertAlterIndex handles ALTER INDEX forms. Only ATTACH PARTITION is
// modelled; renames and storage changes are ignored.
func convertAlterIndex(stmt *pgq.AlterTableStmt, rawSQL string) ir.Node {
	for _, cmd := range stmt.GetCmds() {
		alterCmd := cmd.GetAlterTableCmd()
		if alterCmd == nil {
			continue
		}
		if alterCmd.GetSubtype() == pgq.AlterTableType_AT_AttachPartition {
			child := alterCmd.GetDef().GetPartitionCmd().GetName()
			return &ir.AlterIndexAttachPartition{
				ParentIndex: stmt.GetRelation().GetRelname(),
				ChildIndex:  child.GetRelname(),
			}
		}
	}
	return &ir.Ignored{RawSQL: rawSQL}
}

// convertAlterTableCmd lowers a single ALTER TABLE action. ADD COLUMN
// with inline constraints yields one AddColumn followed by one
// AddConstraint per lifted constraint, so replay and rules see both
// faces. Unmodelled actions become OtherAction, never an abort.
func convertAlterTableCmd(cmd *pgq.AlterTableCmd) []ir.AlterTableAction {
	switch cmd.GetSubtype() {
	case pgq.AlterTableType_AT_AddColumn:
		colDef := cmd.GetDef().GetColumnDef()
		if colDef == nil {
			return []ir.AlterTableAction{&ir.OtherAction{Description: "ADD COLUMN with unrecognized definition"}}
		}
		col, lifted := convertColumnDef(colDef)
		actions := []ir.AlterTableAction{&ir.AddColumn{Column: col}}
		for _, c := range lifted {
			actions = append(actions, &ir.AddConstraint{Constraint: c})
		}
		return actions

	case pgq.AlterTableType_AT_DropColumn:
		return []ir.AlterTableAction{&ir.DropColumn{Name: cmd.GetName()}}

	case pgq.AlterTableType_AT_AddConstraint:
		constraint := cmd.GetDef().GetConstraint()
		if constraint == nil {
			return []ir.AlterTableAction{&ir.OtherAction{Description: "ADD CONSTRAINT with unrecognized definition"}}
		}
		c := convertTableConstraint(constraint)
		if c == nil {
			return []ir.AlterTableAction{&ir.OtherAction{
				Description: fmt.Sprintf("ADD CONSTRAINT of unmodelled kind %s", constraint.GetContype()),
			}}
		}
		return []ir.AlterTableAction{&ir.AddConstraint{Constraint: c}}

	case pgq.AlterTableType_AT_DropConstraint:
		return []ir.AlterTableAction{&ir.DropConstraint{Name: cmd.GetName()}}

	case pgq.AlterTableType_AT_ValidateConstraint:
		return []ir.AlterTableAction{&ir.ValidateConstraint{Name: cmd.GetName()}}

	case pgq.AlterTableType_AT_AlterColumnType:
		colDef := cmd.GetDef().GetColumnDef()
		if colDef == nil {
			return []ir.AlterTableAction{&ir.OtherAction{Description: "ALTER COLUMN TYPE with unrecognized definition"}}
		}
		newType, _ := convertTypeName(colDef.GetTypeName())
		return []ir.AlterTableAction{&ir.AlterColumnType{
			ColumnName: cmd.GetName(),
			NewType:    newType,
		}}

	case pgq.AlterTableType_AT_SetNotNull:
		return []ir.AlterTableAction{&ir.SetNotNull{ColumnName: cmd.GetName()}}

	case pgq.AlterTableType_AT_DropNotNull:
		return []ir.AlterTableAction{&ir.DropNotNull{ColumnName: cmd.GetName()}}

	case pgq.AlterTableType_AT_AttachPartition:
		child := cmd.GetDef().GetPartitionCmd().GetName()
		return []ir.AlterTableAction{&ir.AttachPartition{Child: relationName(child)}}

	case pgq.AlterTableType_AT_DetachPartition:
		partCmd := cmd.GetDef().GetPartitionCmd()
		return []ir.AlterTableAction{&ir.DetachPartition{
			Child:      relationName(partCmd.GetName()),
			Concurrent: partCmd.GetConcurrent(),
		}}

	case pgq.AlterTableType_AT_DisableTrig:
		return []ir.AlterTableAction{&ir.DisableTrigger{Scope: ir.TriggerNamed, Name: cmd.GetName()}}

	case pgq.AlterTableType_AT_DisableTrigAll:
		return []ir.AlterTableAction{&ir.DisableTrigger{Scope: ir.TriggerAll}}

	case pgq.AlterTableType_AT_DisableTrigUser:
		return []ir.AlterTableAction{&ir.DisableTrigger{Scope: ir.TriggerUser}}

	default:
		return []ir.AlterTableAction{&ir.OtherAction{
			Description: fmt.Sprintf("unmodelled ALTER TABLE action %s", cmd.GetSubtype()),
		}}
	}
}
