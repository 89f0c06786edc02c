package owners

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

// PackageName is the key the registry configuration is stored under.
const PackageName = "owners"

// Initializer fulfils the Initializer interface to load the registry from
// the genesis file.
type Initializer struct{}

var _ vault.Initializer = (*Initializer)(nil)

// FromGenesis reads conf.owners, validates and saves it. The registry can be
// initialized only once.
func (*Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	if _, err := Load(db); err == nil {
		return errors.Wrap(errors.ErrImmutable, "owner registry already initialized")
	} else if !errors.ErrNotFound.Is(err) {
		return err
	}
	var r Registry
	return gconf.InitConfig(db, opts, PackageName, &r)
}

// Load returns the registry stored in the database.
func Load(db gconf.ReadStore) (*Registry, error) {
	var r Registry
	if err := gconf.Load(db, PackageName, &r); err != nil {
		return nil, errors.Wrap(err, "load owner registry")
	}
	return &r, nil
}

// Save validates and stores given registry. Use it only when bootstrapping
// a vault, the registry must not change once transactions exist.
func Save(db gconf.Store, r *Registry) error {
	return gconf.Save(db, PackageName, r)
}
