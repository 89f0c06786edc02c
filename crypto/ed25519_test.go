package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/vault/errors"
)

func TestKeysAreDeterministicFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)

	if !a.PublicKey().Address().Equals(b.PublicKey().Address()) {
		t.Fatal("the same seed must produce the same address")
	}
	if err := a.PublicKey().Address().Validate(); err != nil {
		t.Fatalf("invalid address: %s", err)
	}
	if err := a.PublicKey().Condition().Validate(); err != nil {
		t.Fatalf("invalid condition: %s", err)
	}
}

func TestPrivateKeySerialization(t *testing.T) {
	key, err := GenPrivKeyEd25519()
	if err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	loaded, err := ParsePrivateKey(key.Bytes())
	if err != nil {
		t.Fatalf("cannot parse key: %s", err)
	}
	if !bytes.Equal(key.PublicKey(), loaded.PublicKey()) {
		t.Fatal("loaded key differs")
	}

	if _, err := ParsePrivateKey([]byte("short")); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}

func TestSignatureVerification(t *testing.T) {
	key := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{1}, 32))
	other := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{2}, 32))
	msg := []byte("approve 1")
	sig := key.Sign(msg)

	if !key.PublicKey().Verify(msg, sig) {
		t.Fatal("valid signature rejected")
	}
	if key.PublicKey().Verify([]byte("approve 2"), sig) {
		t.Fatal("signature of another message accepted")
	}
	if other.PublicKey().Verify(msg, sig) {
		t.Fatal("signature of another key accepted")
	}
	if PublicKey("short").Verify(msg, sig) {
		t.Fatal("malformed public key accepted")
	}
}
