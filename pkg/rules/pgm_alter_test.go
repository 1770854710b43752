// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

func ordersBefore() *catalog.Catalog {
	return catalog.NewBuilder().
		Table("orders", func(t *catalog.TableBuilder) {
			t.Column("id", "bigint", false).
				Column("email", "text", true).
				PK("id")
		}).
		Build()
}

func alterOrders(actions ...ir.AlterTableAction) ir.Located[ir.Node] {
	return located(&ir.AlterTable{Name: ir.Unqualified("orders"), Actions: actions})
}

func TestPGM007(t *testing.T) {
	t.Run("type change on existing table fires", func(t *testing.T) {
		before := ordersBefore()
		old := ir.SimpleType("bigint")
		ctx := makeCtx(before, before.Clone(), "migrations/006.sql", nil)

		findings := pgm007{}.Check([]ir.Located[ir.Node]{
			alterOrders(&ir.AlterColumnType{ColumnName: "id", NewType: ir.SimpleType("text"), OldType: &old}),
		}, ctx)

		require.Len(t, findings, 1)
		assert.Equal(t, Minor, findings[0].Severity)
		assert.Contains(t, findings[0].Message, "'id'")
		assert.Contains(t, findings[0].Message, "bigint")
		assert.Contains(t, findings[0].Message, "text")
	})

	t.Run("type change on table created in change is exempt", func(t *testing.T) {
		before := ordersBefore()
		ctx := makeCtx(before, before.Clone(), "migrations/006.sql", map[string]struct{}{"orders": {}})

		findings := pgm007{}.Check([]ir.Located[ir.Node]{
			alterOrders(&ir.AlterColumnType{ColumnName: "id", NewType: ir.SimpleType("text")}),
		}, ctx)
		assert.Empty(t, findings)
	})
}

func TestPGM010(t *testing.T) {
	tests := map[string]struct {
		column       ir.ColumnDef
		wantFindings int
	}{
		"not null without default fires": {
			column:       ir.ColumnDef{Name: "status", TypeName: ir.SimpleType("text"), Nullable: false},
			wantFindings: 1,
		},
		"not null with default is fine": {
			column: ir.ColumnDef{
				Name: "status", TypeName: ir.SimpleType("text"), Nullable: false,
				DefaultExpr: &ir.LiteralDefault{Value: "new"},
			},
		},
		"nullable without default is fine": {
			column: simpleColumn("status", "text"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			before := ordersBefore()
			ctx := makeCtx(before, before.Clone(), "migrations/007.sql", nil)

			findings := pgm010{}.Check([]ir.Located[ir.Node]{
				alterOrders(&ir.AddColumn{Column: tc.column}),
			}, ctx)
			assert.Len(t, findings, tc.wantFindings)
		})
	}
}

func TestPGM016(t *testing.T) {
	before := ordersBefore()
	ctx := makeCtx(before, before.Clone(), "migrations/008.sql", nil)

	findings := pgm016{}.Check([]ir.Located[ir.Node]{
		alterOrders(&ir.SetNotNull{ColumnName: "email"}),
	}, ctx)

	require.Len(t, findings, 1)
	assert.Equal(t, Critical, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "SET NOT NULL")
	assert.Contains(t, findings[0].Message, "NOT VALID")
}

func TestPGM017(t *testing.T) {
	addUnique := func(usingIndex string) ir.Located[ir.Node] {
		return alterOrders(&ir.AddConstraint{Constraint: &ir.UniqueConstraint{
			Name:       "uq_email",
			Columns:    []string{"email"},
			UsingIndex: usingIndex,
		}})
	}
	// USING INDEX leaves the column list empty.
	addUniqueUsing := func(usingIndex string) ir.Located[ir.Node] {
		return alterOrders(&ir.AddConstraint{Constraint: &ir.UniqueConstraint{
			Name:       "uq_email",
			UsingIndex: usingIndex,
		}})
	}

	t.Run("add unique without using index fires", func(t *testing.T) {
		before := ordersBefore()
		ctx := makeCtx(before, before.Clone(), "migrations/009.sql", nil)

		findings := pgm017{}.Check([]ir.Located[ir.Node]{addUnique("")}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "orders")
		assert.Contains(t, findings[0].Message, "email")
		assert.Contains(t, findings[0].Message, "CONCURRENTLY")
	})

	t.Run("using unique btree index is safe", func(t *testing.T) {
		before := catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("id", "bigint", false).
					Column("email", "text", true).
					Index("idx_orders_email", []string{"email"}, true)
			}).
			Build()
		ctx := makeCtx(before, before.Clone(), "migrations/009.sql", nil)

		findings := pgm017{}.Check([]ir.Located[ir.Node]{addUniqueUsing("idx_orders_email")}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("missing referenced index fires", func(t *testing.T) {
		before := ordersBefore()
		ctx := makeCtx(before, before.Clone(), "migrations/009.sql", nil)

		findings := pgm017{}.Check([]ir.Located[ir.Node]{addUniqueUsing("idx_ghost")}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "does not exist")
	})

	t.Run("non-unique referenced index fires", func(t *testing.T) {
		before := catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("email", "text", true).
					Index("idx_orders_email", []string{"email"}, false)
			}).
			Build()
		ctx := makeCtx(before, before.Clone(), "migrations/009.sql", nil)

		findings := pgm017{}.Check([]ir.Located[ir.Node]{addUniqueUsing("idx_orders_email")}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "not UNIQUE")
	})

	t.Run("non-btree referenced index fires", func(t *testing.T) {
		before := catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("email", "text", true).
					MethodIndex("idx_orders_email", []string{"email"}, "hash")
			}).
			Build()
		// MethodIndex builds a non-unique index; mark it unique directly
		// on the built catalog so only the access method is at fault.
		before.GetIndex("idx_orders_email").Unique = true
		ctx := makeCtx(before, before.Clone(), "migrations/009.sql", nil)

		findings := pgm017{}.Check([]ir.Located[ir.Node]{addUniqueUsing("idx_orders_email")}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "only btree indexes")
	})

	t.Run("new tables are exempt", func(t *testing.T) {
		ctx := makeCtx(catalog.New(), catalog.New(), "migrations/009.sql", nil)
		findings := pgm017{}.Check([]ir.Located[ir.Node]{addUnique("")}, ctx)
		assert.Empty(t, findings)
	})
}

func TestPGM021(t *testing.T) {
	addUniqueUsing := func(usingIndex string) ir.Located[ir.Node] {
		return alterOrders(&ir.AddConstraint{Constraint: &ir.UniqueConstraint{
			Name:       "uq_email",
			UsingIndex: usingIndex,
		}})
	}

	t.Run("index created in same unit satisfies the looser check", func(t *testing.T) {
		before := ordersBefore()
		after := catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("id", "bigint", false).
					Column("email", "text", true).
					PK("id").
					Index("idx_orders_email", []string{"email"}, true)
			}).
			Build()
		ctx := makeCtx(before, after, "migrations/010.sql", nil)

		findings := pgm021{}.Check([]ir.Located[ir.Node]{addUniqueUsing("idx_orders_email")}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("index missing from both catalogs fires", func(t *testing.T) {
		before := ordersBefore()
		ctx := makeCtx(before, before.Clone(), "migrations/010.sql", nil)

		findings := pgm021{}.Check([]ir.Located[ir.Node]{addUniqueUsing("idx_ghost")}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "does not exist")
	})

	t.Run("pre-existing index is left to the strict variant", func(t *testing.T) {
		before := catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("email", "text", true).
					Index("idx_orders_email", []string{"email"}, false)
			}).
			Build()
		ctx := makeCtx(before, before.Clone(), "migrations/010.sql", nil)

		findings := pgm021{}.Check([]ir.Located[ir.Node]{addUniqueUsing("idx_orders_email")}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("no using index is left to the strict variant", func(t *testing.T) {
		before := ordersBefore()
		ctx := makeCtx(before, before.Clone(), "migrations/010.sql", nil)

		findings := pgm021{}.Check([]ir.Located[ir.Node]{
			alterOrders(&ir.AddConstraint{Constraint: &ir.UniqueConstraint{Columns: []string{"email"}}}),
		}, ctx)
		assert.Empty(t, findings)
	})
}

func TestPGM023(t *testing.T) {
	addFK := func(notValid bool) ir.Located[ir.Node] {
		return alterOrders(&ir.AddConstraint{Constraint: &ir.ForeignKeyConstraint{
			Name:       "fk_customer",
			Columns:    []string{"customer_id"},
			RefTable:   ir.Unqualified("customers"),
			RefColumns: []string{"id"},
			NotValid:   notValid,
		}})
	}

	t.Run("fk without not valid fires", func(t *testing.T) {
		before := ordersBefore()
		ctx := makeCtx(before, before.Clone(), "migrations/011.sql", nil)

		findings := pgm023{}.Check([]ir.Located[ir.Node]{addFK(false)}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "NOT VALID")
	})

	t.Run("fk with not valid is fine", func(t *testing.T) {
		before := ordersBefore()
		ctx := makeCtx(before, before.Clone(), "migrations/011.sql", nil)

		findings := pgm023{}.Check([]ir.Located[ir.Node]{addFK(true)}, ctx)
		assert.Empty(t, findings)
	})
}
