package x

import (
	"context"

	"github.com/iov-one/vault"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of handlers,
// so we can plug in another authentication system.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled, you may want
	// GetAddresses helper
	GetConditions(vault.Context) []vault.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(vault.Context, vault.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx vault.Context) []vault.Condition {
	var res []vault.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx vault.Context, auth Authenticator) []vault.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]vault.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx vault.Context, auth Authenticator) vault.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

type contextKey int

const contextKeyConditions contextKey = iota

// WithConditions returns a context that authenticates given conditions when
// read by ContextAuth. The caller is responsible for verifying that the
// conditions are fulfilled, for example by holding the private key.
func WithConditions(ctx vault.Context, conds ...vault.Condition) vault.Context {
	return context.WithValue(ctx, contextKeyConditions, conds)
}

// ContextAuth authenticates conditions set with WithConditions.
type ContextAuth struct{}

var _ Authenticator = ContextAuth{}

// GetConditions returns the conditions stored in the context.
func (ContextAuth) GetConditions(ctx vault.Context) []vault.Condition {
	conds, _ := ctx.Value(contextKeyConditions).([]vault.Condition)
	return conds
}

// HasAddress returns true if any of the stored conditions resolves to given
// address.
func (a ContextAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
