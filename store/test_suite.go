package store

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/vault/vaulttest/assert"
)

// TestSuite runs the same set of checks against any CacheableKVStore
// implementation. Only the constructor of the store under test differs
// between the in-memory and the iavl backed implementations.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing its
// resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite that is testing stores created by given
// constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that writes are visible in the cache they were made in and
// in the parent only once written.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("tx:1"), []byte("pending")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("tx:2"), []byte("executed")
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// A discarded cache leaves no trace.
	k3 := []byte("tx:3")
	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(k3, v))
	discarded.Discard()
	s.AssertGetHas(t, base, k3, nil, false)

	deleting := base.CacheWrap()
	assert.Nil(t, deleting.Delete(k))
	s.AssertGetHas(t, deleting, k, nil, false)
	s.AssertGetHas(t, base, k, v, true)
	assert.Nil(t, deleting.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that a child cache can overwrite and delete values
// of its parent.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := makeKeys(4)
	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(ks[1], []byte("a")), SetOp(ks[2], []byte("b"))},
			childOps:      []Op{SetOp(ks[1], []byte("c")), SetOp(ks[3], []byte("d")), DelOp(ks[2])},
			parentQueries: []Model{Pair(ks[1], []byte("a")), Pair(ks[2], []byte("b")), Pair(ks[3], nil)},
			childQueries:  []Model{Pair(ks[1], []byte("c")), Pair(ks[2], nil), Pair(ks[3], []byte("d"))},
		},
		"delete missing key": {
			parentOps:     []Op{SetOp(ks[0], []byte("a"))},
			childOps:      []Op{DelOp(ks[1])},
			parentQueries: []Model{Pair(ks[0], []byte("a")), Pair(ks[1], nil)},
			childQueries:  []Model{Pair(ks[0], []byte("a")), Pair(ks[1], nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// Iterator checks that range iteration combines parent and cache content
// in both directions.
func (s *TestSuite) Iterator(t *testing.T) {
	ks := makeKeys(8)
	m := func(i int, val string) Model { return Pair(ks[i], []byte(val)) }

	cases := map[string]struct {
		parentOps []Op
		childOps  []Op
		start     []byte
		end       []byte
		reverse   bool
		want      []Model
	}{
		"child only": {
			childOps: []Op{SetOp(ks[2], []byte("c")), SetOp(ks[0], []byte("a"))},
			want:     []Model{m(0, "a"), m(2, "c")},
		},
		"parent only": {
			parentOps: []Op{SetOp(ks[1], []byte("b")), SetOp(ks[3], []byte("d"))},
			want:      []Model{m(1, "b"), m(3, "d")},
		},
		"child overwrites and deletes parent": {
			parentOps: []Op{SetOp(ks[1], []byte("b")), SetOp(ks[3], []byte("d")), SetOp(ks[5], []byte("f"))},
			childOps:  []Op{SetOp(ks[1], []byte("B")), DelOp(ks[3]), SetOp(ks[4], []byte("e"))},
			want:      []Model{m(1, "B"), m(4, "e"), m(5, "f")},
		},
		"bounded range excludes end": {
			parentOps: []Op{SetOp(ks[1], []byte("b")), SetOp(ks[3], []byte("d"))},
			childOps:  []Op{SetOp(ks[2], []byte("c")), SetOp(ks[6], []byte("g"))},
			start:     ks[1],
			end:       ks[6],
			want:      []Model{m(1, "b"), m(2, "c"), m(3, "d")},
		},
		"reverse": {
			parentOps: []Op{SetOp(ks[1], []byte("b"))},
			childOps:  []Op{SetOp(ks[2], []byte("c")), SetOp(ks[0], []byte("a"))},
			start:     ks[1],
			reverse:   true,
			want:      []Model{m(2, "c"), m(1, "b")},
		},
		"everything deleted": {
			parentOps: []Op{SetOp(ks[1], []byte("b"))},
			childOps:  []Op{DelOp(ks[1])},
			want:      nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, consume(it))
		})
	}
}

// AssertGetHas checks that both Get and Has return the expected result for
// given key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("key %q: want %q, got %q", key, val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// consume reads all models of given iterator. It returns nil if the
// iterator is empty.
func consume(it Iterator) []Model {
	defer it.Close()
	var res []Model
	for ; it.Valid(); it.Next() {
		res = append(res, Pair(it.Key(), it.Value()))
	}
	return res
}

// makeKeys returns count keys in ascending order.
func makeKeys(count int) [][]byte {
	keys := make([][]byte, count)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("key:%03d", i))
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	return keys
}
