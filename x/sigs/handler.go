package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Handler verifies the signatures of a transaction before passing it to
// the next handler.
type Handler struct {
	next             vault.Handler
	allowMissingSigs bool
}

var _ vault.Handler = Handler{}

// NewHandler returns a handler that requires at least one signature of a
// SignedTx.
func NewHandler(next vault.Handler) Handler {
	return Handler{next: next}
}

// AllowMissingSigs passes along signed transactions with no signatures.
// Transactions that cannot carry signatures are always passed along
// unauthenticated.
func (h Handler) AllowMissingSigs() Handler {
	h.allowMissingSigs = true
	return h
}

// Check verifies signatures before calling the next handler.
func (h Handler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	ctx, err := h.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return h.next.Check(ctx, db, tx)
}

// Deliver verifies signatures before calling the next handler.
func (h Handler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	ctx, err := h.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return h.next.Deliver(ctx, db, tx)
}

func (h Handler) authenticate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (vault.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := VerifyTxSignatures(db, stx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !h.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
