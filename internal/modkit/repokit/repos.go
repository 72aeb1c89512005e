// Package repokit holds the seams every b4b repo is written against
package repokit

import "b4b/internal/platform/store"

type (
	// Queryer is the read and write surface a repo binds to, pool or tx alike
	Queryer = store.RowQuerier

	// TxRunner runs a function inside one transaction
	TxRunner = store.TxRunner

	// Rows is a result set
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag reports what a statement touched
	CommandTag = store.CommandTag
)

// Binder hands out a repo bound to q
// services bind the same repo to the pool for reads and to a tx when writes must land together
type Binder[T any] interface {
	Bind(q Queryer) T
}
