package sigs

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestVerifySignature(t *testing.T) {
	key := vaulttest.SequenceKey(1)
	other := vaulttest.SequenceKey(2)

	cases := map[string]struct {
		Sign    func(t testing.TB, tx *signedTx) *Signature
		WantErr *errors.Error
	}{
		"valid first signature": {
			Sign: func(t testing.TB, tx *signedTx) *Signature {
				sig, err := SignTx(key, tx, 0)
				assert.Nil(t, err)
				return sig
			},
		},
		"sequence from the future": {
			Sign: func(t testing.TB, tx *signedTx) *Signature {
				sig, err := SignTx(key, tx, 3)
				assert.Nil(t, err)
				return sig
			},
			WantErr: ErrInvalidSequence,
		},
		"public key of another signer": {
			Sign: func(t testing.TB, tx *signedTx) *Signature {
				sig, err := SignTx(key, tx, 0)
				assert.Nil(t, err)
				sig.PublicKey = other.PublicKey()
				return sig
			},
			WantErr: errors.ErrUnauthorized,
		},
		"signature of another payload": {
			Sign: func(t testing.TB, tx *signedTx) *Signature {
				sig, err := SignTx(key, newSignedTx("something else"), 0)
				assert.Nil(t, err)
				return sig
			},
			WantErr: errors.ErrUnauthorized,
		},
		"missing signature bytes": {
			Sign: func(t testing.TB, tx *signedTx) *Signature {
				return &Signature{PublicKey: key.PublicKey()}
			},
			WantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			tx := newSignedTx("payload")
			tx.Signatures = []*Signature{tc.Sign(t, tx)}

			signers, err := VerifyTxSignatures(db, tx)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}
			assert.Equal(t, 1, len(signers))
			assert.Equal(t, true, key.PublicKey().Condition().Equals(signers[0]))

			next, err := NextSequence(db, key.PublicKey().Address())
			assert.Nil(t, err)
			assert.Equal(t, int64(1), next)
		})
	}
}

func TestReplayIsRejected(t *testing.T) {
	db := store.MemStore()
	key := vaulttest.SequenceKey(5)
	tx := newSignedTx("approve 1")

	sig, err := SignTx(key, tx, 0)
	assert.Nil(t, err)
	tx.Signatures = []*Signature{sig}

	_, err = VerifyTxSignatures(db, tx)
	assert.Nil(t, err)
	_, err = VerifyTxSignatures(db, tx)
	assert.IsErr(t, ErrInvalidSequence, err)

	sig, err = SignTx(key, tx, 1)
	assert.Nil(t, err)
	tx.Signatures = []*Signature{sig}
	_, err = VerifyTxSignatures(db, tx)
	assert.Nil(t, err)

	next, err := NextSequence(db, key.PublicKey().Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(2), next)
}

func TestAccountSequence(t *testing.T) {
	acc := &Account{Sequence: 4}
	assert.IsErr(t, ErrInvalidSequence, acc.CheckAndIncrementSequence(3))
	assert.Nil(t, acc.CheckAndIncrementSequence(4))
	assert.Equal(t, int64(5), acc.Sequence)

	acc.Sequence = maxSequenceValue
	assert.IsErr(t, errors.ErrOverflow, acc.CheckAndIncrementSequence(maxSequenceValue))

	_, err := BuildSignBytes([]byte("x"), -1)
	assert.IsErr(t, ErrInvalidSequence, err)
}

func TestNextSequenceOfUnknownSigner(t *testing.T) {
	next, err := NextSequence(store.MemStore(), vaulttest.SequenceCondition(9).Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(0), next)
}
