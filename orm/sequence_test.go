package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("tx", "id")

	count, err := seq.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)

	var prev []byte
	for want := uint64(0); want < 300; want++ {
		raw, err := seq.NextVal(db)
		assert.Nil(t, err)
		got, err := DecodeSequence(raw)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
		if prev != nil && bytes.Compare(prev, raw) >= 0 {
			t.Fatalf("%X is not greater than %X", raw, prev)
		}
		prev = raw
	}

	count, err = seq.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(300), count)

	// Sequences with different names are independent.
	other := NewSequence("tx", "other")
	n, err := other.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestDecodeSequence(t *testing.T) {
	_, err := DecodeSequence([]byte{1, 2})
	if err == nil {
		t.Fatal("want error")
	}
	v, err := DecodeSequence(nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), v)
}
