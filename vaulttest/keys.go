package vaulttest

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
)

// NewKey returns a new, random private key.
func NewKey() *crypto.PrivateKey {
	key, err := crypto.GenPrivKeyEd25519()
	if err != nil {
		panic(err)
	}
	return key
}

// NewCondition returns the condition of a new, random key.
func NewCondition() vault.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceKey returns a key that is always the same for given number.
// Use it when a test needs stable identities.
func SequenceKey(n uint64) *crypto.PrivateKey {
	seed := make([]byte, 32)
	binary.BigEndian.PutUint64(seed[24:], n)
	return crypto.PrivKeyEd25519FromSeed(seed)
}

// SequenceCondition returns the condition of SequenceKey(n).
func SequenceCondition(n uint64) vault.Condition {
	return SequenceKey(n).PublicKey().Condition()
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. The test fails if the address cannot be parsed.
func ParseAddress(t testing.TB, encodedAddress string) vault.Address {
	t.Helper()

	addr, err := vault.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
