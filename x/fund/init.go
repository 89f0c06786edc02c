package fund

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

// GenesisBalance is an initial wallet balance declared in the genesis file.
type GenesisBalance struct {
	Address vault.Address `json:"address"`
	Amount  coin.Coin     `json:"amount"`
}

// Initializer fulfils the Initializer interface to load the fund
// configuration and initial balances from the genesis file.
type Initializer struct{}

var _ vault.Initializer = Initializer{}

// FromGenesis reads conf.fund and the optional list of balances stored
// under the "fund" key.
func (Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, PackageName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}
	var balances []GenesisBalance
	if err := opts.ReadOptions(PackageName, &balances); err != nil {
		return err
	}
	ctrl := NewController()
	for i, b := range balances {
		if err := b.Address.Validate(); err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
		if err := ctrl.Deposit(db, b.Address, b.Amount); err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
	}
	return nil
}
