package app

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

type countInit struct {
	called int
	err    error
}

func (c *countInit) FromGenesis(vault.Options, vault.KVStore) error {
	c.called++
	return c.err
}

func TestLoadGenesis(t *testing.T) {
	gen, err := LoadGenesis("testdata/genesis.json")
	assert.Nil(t, err)
	assert.Equal(t, 1, len(gen.AppState))

	_, err = LoadGenesis("testdata/missing.json")
	assert.IsErr(t, errors.ErrInput, err)
}

func TestChainInitializers(t *testing.T) {
	first, failing, last := &countInit{}, &countInit{err: errors.ErrInput}, &countInit{}

	err := ChainInitializers(first, failing, last).FromGenesis(vault.Options{}, store.MemStore())
	assert.IsErr(t, errors.ErrInput, err)
	assert.Equal(t, 1, first.called)
	assert.Equal(t, 1, failing.called)
	assert.Equal(t, 0, last.called)
}
