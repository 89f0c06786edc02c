package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestHandler(t *testing.T) {
	key := vaulttest.SequenceKey(1)

	t.Run("signers are authenticated", func(t *testing.T) {
		db := store.MemStore()
		next := &signersHandler{}
		h := NewHandler(next)

		tx := newSignedTx("payload")
		sig, err := SignTx(key, tx, 0)
		assert.Nil(t, err)
		tx.Signatures = []*Signature{sig}

		_, err = h.Deliver(context.Background(), db, tx)
		assert.Nil(t, err)
		assert.Equal(t, 1, len(next.signers))
		assert.Equal(t, true, Authenticator{}.HasAddress(withSigners(context.Background(), next.signers), key.PublicKey().Address()))

		// The same signature cannot be used twice.
		_, err = h.Check(context.Background(), db, tx)
		assert.IsErr(t, ErrInvalidSequence, err)
	})

	t.Run("missing signatures", func(t *testing.T) {
		next := &signersHandler{}
		_, err := NewHandler(next).Check(context.Background(), store.MemStore(), newSignedTx("payload"))
		assert.IsErr(t, errors.ErrUnauthorized, err)

		_, err = NewHandler(next).AllowMissingSigs().Check(context.Background(), store.MemStore(), newSignedTx("payload"))
		assert.Nil(t, err)
		assert.Equal(t, 0, len(next.signers))
	})

	t.Run("transactions without signatures pass through", func(t *testing.T) {
		next := &signersHandler{}
		tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/payload"}}
		_, err := NewHandler(next).Deliver(context.Background(), store.MemStore(), tx)
		assert.Nil(t, err)
		assert.Equal(t, 0, len(next.signers))
	})
}
