// SPDX-License-Identifier: Apache-2.0

// Package ir defines the intermediate representation for SQL statements.
//
// The IR layer decouples the parser from the rule engine. It represents
// only the information needed for linting, not the full PostgreSQL AST.
package ir

import (
	"fmt"
	"strings"
)

// Node is a parsed SQL statement mapped to a high-level operation. The set
// of implementations is closed; each variant carries only the fields rules
// need, not the full AST.
type Node interface {
	isNode()
}

// Located wraps a value with its source location.
type Located[T any] struct {
	Node T
	Span SourceSpan
}

// SourceSpan locates a statement within its source file. Lines are 1-based
// and inclusive; offsets are byte offsets from the start of the file.
type SourceSpan struct {
	StartLine   int
	EndLine     int
	StartOffset int
	EndOffset   int
}

// TablePersistence maps 1:1 to PostgreSQL's relpersistence.
type TablePersistence int

const (
	// Permanent is a regular permanent table (relpersistence = 'p').
	Permanent TablePersistence = iota
	// Unlogged tables are not WAL-logged, truncated on crash recovery,
	// and not replicated to standbys (relpersistence = 'u').
	Unlogged
	// Temporary tables are session-local (relpersistence = 't').
	Temporary
)

// PartitionStrategy is the declarative partitioning strategy of a table.
type PartitionStrategy int

const (
	PartitionByRange PartitionStrategy = iota
	PartitionByList
	PartitionByHash
)

// PartitionBy describes the PARTITION BY clause of a partitioned table.
type PartitionBy struct {
	Strategy PartitionStrategy
	Columns  []string
}

// CreateTable represents CREATE TABLE.
type CreateTable struct {
	Name        QualifiedName
	Columns     []ColumnDef
	Constraints []TableConstraint
	Persistence TablePersistence
	IfNotExists bool
	// PartitionBy is set when the table is declared PARTITION BY.
	PartitionBy *PartitionBy
	// PartitionOf names the parent when the table is declared PARTITION OF.
	PartitionOf *QualifiedName
}

// AlterTable represents ALTER TABLE with one or more actions.
type AlterTable struct {
	Name    QualifiedName
	Actions []AlterTableAction
}

// AlterTableAction is one action within an ALTER TABLE statement. The set
// of implementations is closed.
type AlterTableAction interface {
	isAlterTableAction()
}

// AddColumn adds a column. Inline constraints are lifted into separate
// AddConstraint actions by the converter; the column still records
// IsInlinePK and Nullable so rules see both faces.
type AddColumn struct {
	Column ColumnDef
}

// DropColumn drops a column by name.
type DropColumn struct {
	Name string
}

// AddConstraint adds a table-level constraint.
type AddConstraint struct {
	Constraint TableConstraint
}

// DropConstraint drops a constraint by name.
type DropConstraint struct {
	Name string
}

// ValidateConstraint validates a previously NOT VALID constraint.
type ValidateConstraint struct {
	Name string
}

// AlterColumnType changes a column's type. OldType is not derivable from
// the SQL; the replay engine populates it from the column's type in the
// catalog as replay reaches this action, when the column is known. That
// state includes earlier statements of the same unit, so it is not always
// the pre-unit type.
type AlterColumnType struct {
	ColumnName string
	NewType    TypeName
	OldType    *TypeName
}

// SetNotNull sets NOT NULL on an existing column (ACCESS EXCLUSIVE lock).
type SetNotNull struct {
	ColumnName string
}

// DropNotNull drops NOT NULL from a column.
type DropNotNull struct {
	ColumnName string
}

// AttachPartition attaches a child table as a partition.
type AttachPartition struct {
	Child QualifiedName
}

// DetachPartition detaches a partition, optionally CONCURRENTLY.
type DetachPartition struct {
	Child      QualifiedName
	Concurrent bool
}

// TriggerScope identifies which triggers a DISABLE TRIGGER action affects.
type TriggerScope int

const (
	// TriggerNamed disables a single named trigger.
	TriggerNamed TriggerScope = iota
	// TriggerAll disables all triggers, including FK enforcement.
	TriggerAll
	// TriggerUser disables user-defined triggers only.
	TriggerUser
)

// DisableTrigger represents ALTER TABLE ... DISABLE TRIGGER.
type DisableTrigger struct {
	Scope TriggerScope
	// Name is set only for TriggerNamed.
	Name string
}

// OtherAction is a catch-all for ALTER TABLE actions that parse but have
// no IR mapping.
type OtherAction struct {
	Description string
}

func (*AddColumn) isAlterTableAction()          {}
func (*DropColumn) isAlterTableAction()         {}
func (*AddConstraint) isAlterTableAction()      {}
func (*DropConstraint) isAlterTableAction()     {}
func (*ValidateConstraint) isAlterTableAction() {}
func (*AlterColumnType) isAlterTableAction()    {}
func (*SetNotNull) isAlterTableAction()         {}
func (*DropNotNull) isAlterTableAction()        {}
func (*AttachPartition) isAlterTableAction()    {}
func (*DetachPartition) isAlterTableAction()    {}
func (*DisableTrigger) isAlterTableAction()     {}
func (*OtherAction) isAlterTableAction()        {}

// IndexColumn is an element of an index's column list: either a plain
// column reference or an expression.
type IndexColumn struct {
	// Name is set for plain column references.
	Name string
	// Expression holds the deparsed SQL of an expression element.
	Expression string
	// ReferencedColumns is the sorted, deduplicated set of plain column
	// references extracted from the expression. Empty for plain columns.
	ReferencedColumns []string
}

// IsExpression reports whether the element is an expression rather than a
// plain column reference.
func (c IndexColumn) IsExpression() bool {
	return c.Name == ""
}

// CreateIndex represents CREATE INDEX.
type CreateIndex struct {
	// IndexName is empty when the index is unnamed.
	IndexName   string
	TableName   QualifiedName
	Columns     []IndexColumn
	Unique      bool
	Concurrent  bool
	IfNotExists bool
	// Only is set for CREATE INDEX ON ONLY, used with partitioned parents.
	Only bool
	// AccessMethod is the index method, "btree" when unspecified.
	AccessMethod string
	// WhereClause is the deparsed predicate for partial indexes.
	WhereClause string
}

// DropIndex represents DROP INDEX of a single index.
type DropIndex struct {
	IndexName  string
	Concurrent bool
	IfExists   bool
}

// DropTable represents DROP TABLE of a single table.
type DropTable struct {
	Name     QualifiedName
	IfExists bool
	Cascade  bool
}

// DropSchema represents DROP SCHEMA of a single schema.
type DropSchema struct {
	Name     string
	IfExists bool
	Cascade  bool
}

// TruncateTable represents TRUNCATE of a single table.
type TruncateTable struct {
	Name    QualifiedName
	Cascade bool
}

// InsertInto represents INSERT INTO a table.
type InsertInto struct {
	TableName QualifiedName
}

// UpdateTable represents UPDATE of a table.
type UpdateTable struct {
	TableName QualifiedName
}

// DeleteFrom represents DELETE FROM a table.
type DeleteFrom struct {
	TableName QualifiedName
}

// Cluster represents CLUSTER, which rewrites the table under an ACCESS
// EXCLUSIVE lock.
type Cluster struct {
	Table QualifiedName
	// Index is the USING index name, empty when omitted.
	Index string
}

// RenameTable represents ALTER TABLE ... RENAME TO. pg_query emits a
// RenameStmt for this, not an AlterTableStmt.
type RenameTable struct {
	Name    QualifiedName
	NewName string
}

// RenameColumn represents ALTER TABLE ... RENAME COLUMN.
type RenameColumn struct {
	Table   QualifiedName
	OldName string
	NewName string
}

// AlterIndexAttachPartition represents ALTER INDEX ... ATTACH PARTITION.
type AlterIndexAttachPartition struct {
	ParentIndex string
	ChildIndex  string
}

// Ignored is SQL that parsed successfully but has no IR mapping (GRANT,
// COMMENT ON, SELECT, ...). Not an error, just not relevant to linting.
type Ignored struct {
	RawSQL string
}

// Unparseable is SQL that failed to parse or is inherently opaque (DO $$
// blocks, dynamic SQL). The replay engine uses TableHint to mark affected
// tables as incomplete.
type Unparseable struct {
	RawSQL string
	// TableHint is a best-effort table name extracted from the raw SQL,
	// empty when none was found.
	TableHint string
}

func (*CreateTable) isNode()               {}
func (*AlterTable) isNode()                {}
func (*CreateIndex) isNode()               {}
func (*DropIndex) isNode()                 {}
func (*DropTable) isNode()                 {}
func (*DropSchema) isNode()                {}
func (*TruncateTable) isNode()             {}
func (*InsertInto) isNode()                {}
func (*UpdateTable) isNode()               {}
func (*DeleteFrom) isNode()                {}
func (*Cluster) isNode()                   {}
func (*RenameTable) isNode()               {}
func (*RenameColumn) isNode()              {}
func (*AlterIndexAttachPartition) isNode() {}
func (*Ignored) isNode()                   {}
func (*Unparseable) isNode()               {}

// QualifiedName is a schema-qualified name. Schema is empty for
// unqualified references until normalization assigns the default schema.
//
// Equality considers only (Schema, Name); the pre-computed catalogKey and
// the schemaIsDefault flag are caches. Comparisons must go through Equal,
// not ==, when the caches may differ.
type QualifiedName struct {
	Schema string
	Name   string
	// catalogKey is the pre-computed lookup key: "schema.name" when
	// qualified, "name" when not. Updated by constructors and
	// SetDefaultSchema.
	catalogKey string
	// schemaIsDefault is true when the schema was assigned by
	// normalization rather than written by the user. Used to suppress the
	// schema prefix in user-facing messages.
	schemaIsDefault bool
}

// Unqualified builds a name with no schema.
func Unqualified(name string) QualifiedName {
	return QualifiedName{Name: name, catalogKey: name}
}

// Qualified builds a schema-qualified name.
func Qualified(schema, name string) QualifiedName {
	return QualifiedName{
		Schema:     schema,
		Name:       name,
		catalogKey: schema + "." + name,
	}
}

// CatalogKey returns the pre-computed key used for catalog lookup.
//
// Before normalization this is just the table name for unqualified
// references. After SetDefaultSchema every name has an explicit schema and
// this returns "schema.name".
func (q QualifiedName) CatalogKey() string {
	return q.catalogKey
}

// SetDefaultSchema assigns a default schema to an unqualified name and
// recomputes the catalog key. A no-op when the name is already qualified.
func (q *QualifiedName) SetDefaultSchema(def string) {
	if q.Schema != "" {
		return
	}
	q.Schema = def
	q.catalogKey = def + "." + q.Name
	q.schemaIsDefault = true
}

// DisplayName returns the user-facing name: just Name when the schema was
// synthesized by normalization, or "schema.name" when the user wrote it.
func (q QualifiedName) DisplayName() string {
	if q.schemaIsDefault || q.Schema == "" {
		return q.Name
	}
	return q.Schema + "." + q.Name
}

// Equal compares (Schema, Name) only, ignoring the derived caches.
func (q QualifiedName) Equal(other QualifiedName) bool {
	return q.Schema == other.Schema && q.Name == other.Name
}

// String renders the fully qualified form when a schema is present.
func (q QualifiedName) String() string {
	if q.Schema == "" {
		return q.Name
	}
	return q.Schema + "." + q.Name
}

// ColumnDef describes one column of a table.
type ColumnDef struct {
	Name     string
	TypeName TypeName
	// Nullable is true (the default) unless NOT NULL or PRIMARY KEY.
	Nullable bool
	// DefaultExpr is nil when the column has no default.
	DefaultExpr DefaultExpr
	// IsInlinePK is true when the column carries an inline PRIMARY KEY.
	IsInlinePK bool
	// IsSerial is true for serial, bigserial and smallserial columns.
	IsSerial bool
}

// TypeName is a canonicalized column type.
type TypeName struct {
	// Name is the base type name, lowercased: "int4", "varchar", ...
	Name string
	// Modifiers holds type modifiers: varchar(100) -> [100],
	// numeric(10,2) -> [10, 2].
	Modifiers []int64
}

// SimpleType builds a TypeName without modifiers.
func SimpleType(name string) TypeName {
	return TypeName{Name: strings.ToLower(name)}
}

// ModifiedType builds a TypeName with modifiers.
func ModifiedType(name string, mods ...int64) TypeName {
	return TypeName{Name: strings.ToLower(name), Modifiers: mods}
}

// String renders the type with its modifiers, e.g. "numeric(10,2)".
func (t TypeName) String() string {
	if len(t.Modifiers) == 0 {
		return t.Name
	}
	mods := make([]string, len(t.Modifiers))
	for i, m := range t.Modifiers {
		mods[i] = fmt.Sprintf("%d", m)
	}
	return t.Name + "(" + strings.Join(mods, ",") + ")"
}

// DefaultExpr is a column default expression. The set of implementations
// is closed; nil means no default.
type DefaultExpr interface {
	isDefaultExpr()
}

// LiteralDefault is a constant literal: 0, 'active', true, NULL.
type LiteralDefault struct {
	Value string
}

// FunctionCallDefault is a function call: now(), gen_random_uuid(), ...
type FunctionCallDefault struct {
	// Name is the last component of the function name, lowercased.
	Name string
	Args []string
}

// OtherDefault is an expression we parsed but cannot categorize.
type OtherDefault struct {
	SQL string
}

func (*LiteralDefault) isDefaultExpr()      {}
func (*FunctionCallDefault) isDefaultExpr() {}
func (*OtherDefault) isDefaultExpr()        {}

// TableConstraint is a table-level constraint. The set of implementations
// is closed.
type TableConstraint interface {
	isTableConstraint()
}

// PrimaryKeyConstraint is a PRIMARY KEY. When UsingIndex is set, Columns
// is empty: PostgreSQL derives the columns from the named index.
type PrimaryKeyConstraint struct {
	Columns    []string
	UsingIndex string
}

// ForeignKeyConstraint is a FOREIGN KEY ... REFERENCES.
type ForeignKeyConstraint struct {
	Name       string
	Columns    []string
	RefTable   QualifiedName
	RefColumns []string
	NotValid   bool
}

// UniqueConstraint is a UNIQUE constraint. When UsingIndex is set, Columns
// is empty: PostgreSQL derives the columns from the named index.
type UniqueConstraint struct {
	Name       string
	Columns    []string
	UsingIndex string
}

// CheckConstraint is a CHECK constraint with a deparsed expression.
type CheckConstraint struct {
	Name       string
	Expression string
	NotValid   bool
}

func (*PrimaryKeyConstraint) isTableConstraint() {}
func (*ForeignKeyConstraint) isTableConstraint() {}
func (*UniqueConstraint) isTableConstraint()     {}
func (*CheckConstraint) isTableConstraint()      {}
