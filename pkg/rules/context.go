// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// TableScope controls which tables a rule considers "existing".
type TableScope int

const (
	// ExcludeCreatedInChange requires the table to exist in the pre-unit
	// catalog AND not appear among tables created by changed files. For
	// locking/performance rules where brand-new tables are exempt.
	ExcludeCreatedInChange TableScope = iota
	// AnyPreExisting requires the table to exist in the pre-unit catalog
	// only. For side-effect/integrity rules where the warning matters
	// even if the table was created earlier in the same change set.
	AnyPreExisting
)

// LintContext is the context available to rules while linting one unit.
// Rules read it and never mutate it.
type LintContext struct {
	// CatalogBefore is the snapshot taken just before the unit was
	// applied.
	CatalogBefore *catalog.Catalog
	// CatalogAfter is the live catalog after the unit was applied.
	CatalogAfter *catalog.Catalog
	// TablesCreatedInChange holds the catalog keys of tables created by
	// any changed unit seen so far in this run.
	TablesCreatedInChange map[string]struct{}
	// RunInTransaction is the unit's transaction flag.
	RunInTransaction bool
	// IsDown marks down/rollback units.
	IsDown bool
	// File is the unit's source path.
	File string
}

// IsExistingTable reports whether a table existed before this change and
// was not created in the current set of changed files.
func (c *LintContext) IsExistingTable(tableKey string) bool {
	if !c.CatalogBefore.HasTable(tableKey) {
		return false
	}
	_, created := c.TablesCreatedInChange[tableKey]
	return !created
}

// TableMatchesScope reports whether a table matches the scope filter.
func (c *LintContext) TableMatchesScope(tableKey string, scope TableScope) bool {
	switch scope {
	case AnyPreExisting:
		return c.CatalogBefore.HasTable(tableKey)
	default:
		return c.IsExistingTable(tableKey)
	}
}

// PartitionChildInheritsPK reports whether a PARTITION OF child should be
// exempt from primary-key rules: partition children inherit the parent's
// key, and an unknown parent (incremental analysis) is a suppress signal.
func (c *LintContext) PartitionChildInheritsPK(partitionOf *ir.QualifiedName) bool {
	if partitionOf == nil {
		return false
	}
	parent := c.CatalogAfter.GetTable(partitionOf.CatalogKey())
	if parent == nil {
		return true
	}
	return parent.HasPrimaryKey
}
