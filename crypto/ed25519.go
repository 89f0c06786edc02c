/*
Package crypto provides the ed25519 keys that owners of a vault are
identified by. A public key is turned into a vault.Condition and from there
into the vault.Address that the owner registry lists.
*/
package crypto

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions that keys resolve to.
const ExtensionName = "sigs"

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return &PrivateKey{key: priv}, nil
}

// PrivKeyEd25519FromSeed will deterministically generate a private key
// from a given seed. Use if you have a strong source of external
// randomness, or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}
}

// ParsePrivateKey loads a private key from its binary representation as
// returned by Bytes.
func ParsePrivateKey(raw []byte) (*PrivateKey, error) {
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput,
			"private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(key, raw)
	return &PrivateKey{key: key}, nil
}

// Bytes returns the binary representation of this key.
func (p *PrivateKey) Bytes() []byte {
	return append([]byte(nil), p.key...)
}

// Sign returns the signature of msg.
func (p *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(p.key, msg)
}

// PublicKey returns the corresponding public key.
func (p *PrivateKey) PublicKey() PublicKey {
	pub := p.key.Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Verify returns true if sig is a valid signature of msg made with the
// private key of this public key.
func (p PublicKey) Verify(msg, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), msg, sig)
}

// Condition encodes the public key into a vault condition.
func (p PublicKey) Condition() vault.Condition {
	return vault.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the address of the owner holding this key.
func (p PublicKey) Address() vault.Address {
	return p.Condition().Address()
}
