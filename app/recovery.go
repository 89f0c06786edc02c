package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Recovery wraps a handler and turns its panics into ErrPanic errors.
type Recovery struct {
	next vault.Handler
}

var _ vault.Handler = Recovery{}

// NewRecovery returns a handler recovering panics of given handler.
func NewRecovery(next vault.Handler) Recovery {
	return Recovery{next: next}
}

// Check turns panics into normal errors.
func (r Recovery) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (_ *vault.CheckResult, err error) {
	defer errors.Recover(&err)
	return r.next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors.
func (r Recovery) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (_ *vault.DeliverResult, err error) {
	defer errors.Recover(&err)
	return r.next.Deliver(ctx, db, tx)
}
