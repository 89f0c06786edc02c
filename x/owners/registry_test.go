package owners

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func addrs(n int) []vault.Address {
	res := make([]vault.Address, n)
	for i := range res {
		res[i] = vaulttest.SequenceCondition(uint64(i)).Address()
	}
	return res
}

func TestNewRegistry(t *testing.T) {
	five := addrs(5)

	cases := map[string]struct {
		owners      []vault.Address
		quorum      uint32
		wantOwners  *errors.Error
		wantQuorum  *errors.Error
		wantFailure bool
	}{
		"valid": {
			owners: five,
			quorum: 3,
		},
		"quorum equal to owner count": {
			owners: five,
			quorum: 5,
		},
		"single owner": {
			owners: five[:1],
			quorum: 1,
		},
		"no owners": {
			owners:      nil,
			quorum:      1,
			wantOwners:  errors.ErrConfiguration,
			wantQuorum:  errors.ErrConfiguration,
			wantFailure: true,
		},
		"duplicated owner": {
			owners:      []vault.Address{five[0], five[1], five[0]},
			quorum:      2,
			wantOwners:  errors.ErrConfiguration,
			wantFailure: true,
		},
		"invalid address": {
			owners:      []vault.Address{five[0], vault.Address("short")},
			quorum:      1,
			wantOwners:  errors.ErrConfiguration,
			wantFailure: true,
		},
		"zero quorum": {
			owners:      five,
			quorum:      0,
			wantQuorum:  errors.ErrConfiguration,
			wantFailure: true,
		},
		"quorum above owner count": {
			owners:      five,
			quorum:      6,
			wantQuorum:  errors.ErrConfiguration,
			wantFailure: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			r, err := NewRegistry(tc.owners, tc.quorum)
			if !tc.wantFailure {
				assert.Nil(t, err)
				assert.Equal(t, tc.quorum, r.Quorum())
				assert.Equal(t, len(tc.owners), len(r.Owners()))
				return
			}
			assert.IsErr(t, errors.ErrConfiguration, err)
			if r != nil {
				t.Fatal("registry must not be returned")
			}
			assert.FieldError(t, err, "Owners", tc.wantOwners)
			assert.FieldError(t, err, "Quorum", tc.wantQuorum)
		})
	}
}

func TestRegistryMembership(t *testing.T) {
	all := addrs(6)
	r, err := NewRegistry(all[:5], 3)
	assert.Nil(t, err)

	for i, a := range all[:5] {
		if !r.IsOwner(a) {
			t.Fatalf("address %d must be an owner", i)
		}
	}
	if r.IsOwner(all[5]) {
		t.Fatal("outsider must not be an owner")
	}
	if r.IsOwner(nil) {
		t.Fatal("empty address must not be an owner")
	}

	// Returned owners are a copy.
	owners := r.Owners()
	owners[0][0]++
	if !r.IsOwner(all[0]) || !r.Owners()[0].Equals(all[0]) {
		t.Fatal("registry modified through the owner list")
	}

	// Modifying the input does not alter the registry either.
	input := addrs(2)
	r, err = NewRegistry(input, 1)
	assert.Nil(t, err)
	want := input[1].Clone()
	input[1][0]++
	if !r.IsOwner(want) {
		t.Fatal("registry modified through the constructor input")
	}
}

func TestRegistryPersistence(t *testing.T) {
	db := store.MemStore()

	_, err := Load(db)
	assert.IsErr(t, errors.ErrNotFound, err)

	invalid := newRegistry(addrs(2), 3)
	assert.IsErr(t, errors.ErrConfiguration, Save(db, invalid))

	r, err := NewRegistry(addrs(5), 3)
	assert.Nil(t, err)
	assert.Nil(t, Save(db, r))

	loaded, err := Load(db)
	assert.Nil(t, err)
	assert.Equal(t, r.Owners(), loaded.Owners())
	assert.Equal(t, uint32(3), loaded.Quorum())
	for _, a := range r.Owners() {
		if !loaded.IsOwner(a) {
			t.Fatalf("%s must be an owner after load", a)
		}
	}
}
