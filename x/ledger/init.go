package ledger

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

// Initializer fulfils the Initializer interface to load the ledger
// configuration from the genesis file.
type Initializer struct{}

var _ vault.Initializer = Initializer{}

// FromGenesis reads conf.ledger. DefaultConfiguration is stored if the
// genesis does not provide one.
func (Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, PackageName, &conf)
	if errors.ErrNotFound.Is(err) {
		def := DefaultConfiguration()
		return gconf.Save(db, PackageName, &def)
	}
	return err
}
