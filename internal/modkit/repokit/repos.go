// Package repokit holds the types SQL repositories are written against
package repokit

import (
	"context"
	"time"

	perr "remindme/internal/platform/errors"
	"remindme/internal/platform/store"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows
	// Row is a single row result from a query
	Row = store.Row
	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// Binder binds a domain repo to a Queryer, usually the one a transaction hands out
type Binder[T any] interface {
	Bind(Queryer) T
}

// txAttempts bounds how often WithTx replays a transaction that lost a lock race
const txAttempts = 3

var txBackoff = 25 * time.Millisecond

// WithTx runs fn inside a transaction. When the store reports a transient
// conflict (sqlite busy, serialization failure) the whole transaction is
// replayed, so fn must not keep state between calls
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = tx.Tx(ctx, fn)
		if err == nil || !perr.Retryable(err) || attempt == txAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * txBackoff):
		}
	}
	return err
}
