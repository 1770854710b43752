// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

func TestPGM006(t *testing.T) {
	createWithDefault := func(def ir.DefaultExpr) ir.Located[ir.Node] {
		return located(&ir.CreateTable{
			Name: ir.Unqualified("orders"),
			Columns: []ir.ColumnDef{{
				Name:        "created_at",
				TypeName:    ir.SimpleType("timestamptz"),
				Nullable:    true,
				DefaultExpr: def,
			}},
		})
	}
	ctx := makeCtx(catalog.New(), catalog.New(), "migrations/001.sql", nil)

	tests := map[string]struct {
		def          ir.DefaultExpr
		wantSeverity Severity
		wantFindings int
		wantContains string
	}{
		"now() fires minor": {
			def:          &ir.FunctionCallDefault{Name: "now"},
			wantFindings: 1, wantSeverity: Minor, wantContains: "table rewrite",
		},
		"gen_random_uuid fires minor": {
			def:          &ir.FunctionCallDefault{Name: "gen_random_uuid"},
			wantFindings: 1, wantSeverity: Minor, wantContains: "volatile default",
		},
		"nextval gets serial message": {
			def:          &ir.FunctionCallDefault{Name: "nextval"},
			wantFindings: 1, wantSeverity: Minor, wantContains: "sequence default",
		},
		"unknown function fires info": {
			def:          &ir.FunctionCallDefault{Name: "my_custom_fn"},
			wantFindings: 1, wantSeverity: Info, wantContains: "volatility",
		},
		"immutable function is fine": {
			def: &ir.FunctionCallDefault{Name: "lower"},
		},
		"literal default is fine": {
			def: &ir.LiteralDefault{Value: "0"},
		},
		"no default is fine": {},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			findings := pgm006{}.Check([]ir.Located[ir.Node]{createWithDefault(tc.def)}, ctx)
			require.Len(t, findings, tc.wantFindings)
			if tc.wantFindings > 0 {
				assert.Equal(t, tc.wantSeverity, findings[0].Severity)
				assert.Contains(t, findings[0].Message, tc.wantContains)
			}
		})
	}

	t.Run("add column default is checked too", func(t *testing.T) {
		findings := pgm006{}.Check([]ir.Located[ir.Node]{
			located(&ir.AlterTable{
				Name: ir.Unqualified("orders"),
				Actions: []ir.AlterTableAction{&ir.AddColumn{Column: ir.ColumnDef{
					Name:        "created_at",
					TypeName:    ir.SimpleType("timestamptz"),
					Nullable:    true,
					DefaultExpr: &ir.FunctionCallDefault{Name: "clock_timestamp"},
				}}},
			}),
		}, ctx)
		assert.Len(t, findings, 1)
	})
}

func TestPGM018(t *testing.T) {
	before := ordersBefore()

	t.Run("check without not valid fires critical", func(t *testing.T) {
		ctx := makeCtx(before, before.Clone(), "migrations/018.sql", nil)
		findings := pgm018{}.Check([]ir.Located[ir.Node]{
			alterOrders(&ir.AddConstraint{Constraint: &ir.CheckConstraint{
				Name: "chk_positive", Expression: "amount > 0",
			}}),
		}, ctx)
		require.Len(t, findings, 1)
		assert.Equal(t, Critical, findings[0].Severity)
		assert.Contains(t, findings[0].Message, "NOT VALID")
	})

	t.Run("check with not valid is fine", func(t *testing.T) {
		ctx := makeCtx(before, before.Clone(), "migrations/018.sql", nil)
		findings := pgm018{}.Check([]ir.Located[ir.Node]{
			alterOrders(&ir.AddConstraint{Constraint: &ir.CheckConstraint{
				Name: "chk_positive", Expression: "amount > 0", NotValid: true,
			}}),
		}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("cluster on existing table fires minor", func(t *testing.T) {
		ctx := makeCtx(before, before.Clone(), "migrations/018.sql", nil)
		findings := pgm018{}.Check([]ir.Located[ir.Node]{
			located(&ir.Cluster{Table: ir.Unqualified("orders"), Index: "orders_pkey"}),
		}, ctx)
		require.Len(t, findings, 1)
		assert.Equal(t, Minor, findings[0].Severity)
		assert.Contains(t, findings[0].Message, "CLUSTER")
		assert.Contains(t, findings[0].Message, "orders_pkey")
	})

	t.Run("cluster on new table is exempt", func(t *testing.T) {
		ctx := makeCtx(catalog.New(), catalog.New(), "migrations/018.sql", nil)
		findings := pgm018{}.Check([]ir.Located[ir.Node]{
			located(&ir.Cluster{Table: ir.Unqualified("orders")}),
		}, ctx)
		assert.Empty(t, findings)
	})
}

func TestPGM019(t *testing.T) {
	before := ordersBefore()

	t.Run("rename existing table fires", func(t *testing.T) {
		ctx := makeCtx(before, before.Clone(), "migrations/019.sql", nil)
		findings := pgm019{}.Check([]ir.Located[ir.Node]{
			located(&ir.RenameTable{Name: ir.Unqualified("orders"), NewName: "purchases"}),
		}, ctx)
		require.Len(t, findings, 1)
		assert.Equal(t, Info, findings[0].Severity)
		assert.Contains(t, findings[0].Message, "purchases")
	})

	t.Run("rename column on existing table fires", func(t *testing.T) {
		ctx := makeCtx(before, before.Clone(), "migrations/019.sql", nil)
		findings := pgm019{}.Check([]ir.Located[ir.Node]{
			located(&ir.RenameColumn{Table: ir.Unqualified("orders"), OldName: "email", NewName: "contact_email"}),
		}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "contact_email")
	})

	t.Run("rename of new table is exempt", func(t *testing.T) {
		ctx := makeCtx(before, before.Clone(), "migrations/019.sql", map[string]struct{}{"orders": {}})
		findings := pgm019{}.Check([]ir.Located[ir.Node]{
			located(&ir.RenameTable{Name: ir.Unqualified("orders"), NewName: "purchases"}),
		}, ctx)
		assert.Empty(t, findings)
	})
}

func TestPGM020(t *testing.T) {
	before := ordersBefore()

	tests := map[string]struct {
		scope        ir.TriggerScope
		name         string
		wantContains string
	}{
		"named trigger":   {scope: ir.TriggerNamed, name: "audit_trg", wantContains: "'audit_trg'"},
		"all triggers":    {scope: ir.TriggerAll, wantContains: "foreign key enforcement"},
		"user triggers":   {scope: ir.TriggerUser, wantContains: "user-defined triggers"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := makeCtx(before, before.Clone(), "migrations/020.sql", nil)
			findings := pgm020{}.Check([]ir.Located[ir.Node]{
				alterOrders(&ir.DisableTrigger{Scope: tc.scope, Name: tc.name}),
			}, ctx)
			require.Len(t, findings, 1)
			assert.Equal(t, Minor, findings[0].Severity)
			assert.Contains(t, findings[0].Message, tc.wantContains)
		})
	}

	t.Run("non-existing table downgrades to info", func(t *testing.T) {
		ctx := makeCtx(catalog.New(), catalog.New(), "migrations/020.sql", nil)
		findings := pgm020{}.Check([]ir.Located[ir.Node]{
			alterOrders(&ir.DisableTrigger{Scope: ir.TriggerAll}),
		}, ctx)
		require.Len(t, findings, 1)
		assert.Equal(t, Info, findings[0].Severity)
	})
}

func TestPGM024(t *testing.T) {
	ctx := makeCtx(catalog.New(), catalog.New(), "migrations/021.sql", nil)

	t.Run("unlogged table fires", func(t *testing.T) {
		findings := pgm024{}.Check([]ir.Located[ir.Node]{
			located(&ir.CreateTable{
				Name:        ir.Unqualified("cache_entries"),
				Persistence: ir.Unlogged,
			}),
		}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "UNLOGGED")
	})

	t.Run("permanent table is fine", func(t *testing.T) {
		findings := pgm024{}.Check([]ir.Located[ir.Node]{
			located(&ir.CreateTable{Name: ir.Unqualified("orders")}),
		}, ctx)
		assert.Empty(t, findings)
	})
}

func TestPGM105(t *testing.T) {
	ctx := makeCtx(catalog.New(), catalog.New(), "migrations/022.sql", nil)

	t.Run("serial column fires info", func(t *testing.T) {
		findings := pgm105{}.Check([]ir.Located[ir.Node]{
			located(&ir.CreateTable{
				Name: ir.Unqualified("orders"),
				Columns: []ir.ColumnDef{{
					Name:        "id",
					TypeName:    ir.SimpleType("int4"),
					Nullable:    false,
					IsSerial:    true,
					DefaultExpr: &ir.FunctionCallDefault{Name: "nextval"},
				}},
			}),
		}, ctx)
		require.Len(t, findings, 1)
		assert.Equal(t, Info, findings[0].Severity)
		assert.Contains(t, findings[0].Message, "IDENTITY")
	})

	t.Run("plain integer column is fine", func(t *testing.T) {
		findings := pgm105{}.Check([]ir.Located[ir.Node]{
			located(&ir.CreateTable{
				Name:    ir.Unqualified("orders"),
				Columns: []ir.ColumnDef{simpleColumn("id", "int4")},
			}),
		}, ctx)
		assert.Empty(t, findings)
	})
}
