package app

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	good := &vaulttest.Handler{}
	bad := &vaulttest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	r.Handle("test/good", good)
	r.Handle("test/bad", bad)

	assert.Panics(t, func() { r.Handle("test/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })

	ctx := context.Background()
	db := store.MemStore()
	tx := func(path string) *vaulttest.Tx {
		return &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, db, tx("test/good"))
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, db, tx("test/good"))
	assert.Nil(t, err)
	assert.Equal(t, 1, good.CheckCallCount())
	assert.Equal(t, 1, good.DeliverCallCount())

	_, err = r.Deliver(ctx, db, tx("test/bad"))
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = r.Check(ctx, db, tx("test/missing"))
	assert.IsErr(t, errors.ErrMsg, err)
	_, err = r.Deliver(ctx, db, tx("test/missing"))
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = r.Deliver(ctx, db, &vaulttest.Tx{})
	assert.IsErr(t, errors.ErrMsg, err)
	_, err = r.Check(ctx, db, &vaulttest.Tx{Err: errors.ErrInput})
	assert.IsErr(t, errors.ErrInput, err)
}

type panicHandler struct{}

func (panicHandler) Check(vault.Context, vault.KVStore, vault.Tx) (*vault.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(vault.Context, vault.KVStore, vault.Tx) (*vault.DeliverResult, error) {
	panic("deliver")
}

func TestRecovery(t *testing.T) {
	h := NewRecovery(panicHandler{})
	_, err := h.Check(context.Background(), store.MemStore(), &vaulttest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = h.Deliver(context.Background(), store.MemStore(), &vaulttest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
}
