package sigs

import "github.com/iov-one/vault"

// SignedTx is a transaction carrying signatures.
type SignedTx interface {
	vault.Tx

	// GetSignBytes returns the canonical byte representation of the
	// transaction without its signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of all signers.
	GetSignatures() []*Signature
}
