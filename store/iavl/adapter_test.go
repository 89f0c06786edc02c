package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit := NewMemCommitStore()
	return commit.Adapter(), commit.Close
}

func TestIavlStoreGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestIavlStoreCacheConflicts(t *testing.T) {
	store.NewTestSuite(makeBase).CacheConflicts(t)
}

func TestIavlStoreIterator(t *testing.T) {
	store.NewTestSuite(makeBase).Iterator(t)
}

func TestCommitStorePersistsVersions(t *testing.T) {
	dir, err := ioutil.TempDir("", "vault-iavl-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	s, err := NewCommitStore(dir, "vault")
	assert.Nil(t, err)

	id, err := s.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := s.CacheWrap()
	assert.Nil(t, cache.Set([]byte("tx:0"), []byte("proposed")))
	assert.Nil(t, cache.Write())

	// Not committed yet.
	got, err := s.Get([]byte("tx:0"))
	assert.Nil(t, err)
	assert.Nil(t, got)

	committed, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), committed.Version)
	if len(committed.Hash) == 0 {
		t.Fatal("commit hash must not be empty")
	}

	got, err = s.Get([]byte("tx:0"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("proposed"), got)
	s.Close()

	reopened, err := NewCommitStore(dir, "vault")
	assert.Nil(t, err)
	defer reopened.Close()

	latest, err := reopened.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, committed, latest)

	got, err = reopened.Get([]byte("tx:0"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("proposed"), got)
}
