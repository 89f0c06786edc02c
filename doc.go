/*
Package vault defines the common interfaces that tie together the
components of a quorum-gated, multi-owner wallet: the key value store, the
message and transaction types, the handlers processing them and the
identities (addresses) of the owners.

Extensions live in the x directory. x/owners holds the immutable owner
registry, x/ledger the proposal state machine and x/fund the balances that
an executed transaction pays out from.

We pass context through context.Context between the router and the
handlers. For every value XYZ of type T that is supported in the Context
there are two functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)
*/
package vault
