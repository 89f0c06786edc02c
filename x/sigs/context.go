package sigs

import (
	"context"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/x"
)

type contextKey int

const contextKeySigners contextKey = iota

// withSigners is private, only this package can authenticate signers.
func withSigners(ctx vault.Context, signers []vault.Condition) vault.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticator reveals the conditions of verified signers.
type Authenticator struct{}

var _ x.Authenticator = Authenticator{}

// GetConditions returns who signed the current transaction. May be empty.
func (Authenticator) GetConditions(ctx vault.Context) []vault.Condition {
	val, _ := ctx.Value(contextKeySigners).([]vault.Condition)
	return val
}

// HasAddress returns true if given address signed the transaction.
func (a Authenticator) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
