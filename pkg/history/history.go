// SPDX-License-Identifier: Apache-2.0

// Package history models a chronologically ordered migration history and
// loads it from disk.
package history

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// Unit is one migration entity — a file or changeset — with its own
// transaction and direction flags.
type Unit struct {
	// SourceFile is the path the unit was loaded from.
	SourceFile string
	// Statements are the unit's IR statements in source order.
	Statements []ir.Located[ir.Node]
	// RunInTransaction is whether the unit executes inside a transaction.
	RunInTransaction bool
	// IsDown marks rollback/down migrations; their findings are capped
	// to Info severity.
	IsDown bool
}

// History is an ordered sequence of migration units.
type History struct {
	Units []*Unit
}
