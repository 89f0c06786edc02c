package fund

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/orm"
)

// PackageName is the key the configuration is stored under.
const PackageName = "fund"

// VaultCondition is the condition of the wallet that holds the value
// controlled by the owners. Nobody can sign for it.
var VaultCondition = vault.NewCondition("fund", "vault", []byte("main"))

// VaultAddress returns the address of the vault wallet.
func VaultAddress() vault.Address {
	return VaultCondition.Address()
}

// Controller moves value between wallets.
type Controller struct {
	wallets orm.ModelBucket
}

// NewController returns a controller using the default wallet bucket.
func NewController() Controller {
	return Controller{
		wallets: orm.NewModelBucket("wallet", &Wallet{}),
	}
}

// LoadConfiguration returns the fund configuration stored in the database.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load fund configuration")
	}
	return &conf, nil
}

// Balance returns the balance of given address. An address that never
// received anything has a zero balance of the fund currency.
func (c Controller) Balance(db vault.ReadOnlyKVStore, addr vault.Address) (coin.Coin, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return coin.Coin{}, err
	}
	w, err := c.wallet(db, addr, conf.Ticker)
	if err != nil {
		return coin.Coin{}, err
	}
	return *w.Amount, nil
}

// Deposit increases the balance of given address.
func (c Controller) Deposit(db vault.KVStore, addr vault.Address, amount coin.Coin) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if err := validAmount(amount, conf.Ticker); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	w, err := c.wallet(db, addr, conf.Ticker)
	if err != nil {
		return err
	}
	if *w.Amount, err = w.Amount.Add(amount); err != nil {
		return errors.Wrap(err, "credit")
	}
	return c.wallets.Put(db, addr, w)
}

// Transfer moves given amount from src to dest wallet.
// ErrInsufficientAmount is returned if the source balance is too low.
// Nothing is modified when an error is returned.
func (c Controller) Transfer(db vault.KVStore, src, dest vault.Address, amount coin.Coin) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if err := validAmount(amount, conf.Ticker); err != nil {
		return err
	}
	if !amount.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative transfer")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}

	sender, err := c.wallet(db, src, conf.Ticker)
	if err != nil {
		return err
	}
	if !sender.Amount.IsGTE(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %s, required %s", sender.Amount, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	recipient, err := c.wallet(db, dest, conf.Ticker)
	if err != nil {
		return err
	}

	// Both balances are computed before anything is written, so a failure
	// leaves both wallets untouched.
	debited, err := sender.Amount.Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "debit")
	}
	credited, err := recipient.Amount.Add(amount)
	if err != nil {
		return errors.Wrap(err, "credit")
	}
	*sender.Amount = debited
	*recipient.Amount = credited

	if err := c.wallets.Put(db, src, sender); err != nil {
		return err
	}
	return c.wallets.Put(db, dest, recipient)
}

// wallet returns the wallet of given address or an empty one.
func (c Controller) wallet(db vault.ReadOnlyKVStore, addr vault.Address, ticker string) (*Wallet, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{
			Metadata: &vault.Metadata{Schema: 1},
			Amount:   &coin.Coin{Ticker: ticker},
		}, nil
	default:
		return nil, err
	}
}

func validAmount(amount coin.Coin, ticker string) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.Ticker != ticker {
		return errors.Wrapf(errors.ErrCurrency, "fund accepts only %s, got %s", ticker, amount.Ticker)
	}
	return nil
}

// Account binds the vault wallet to the ledger. It is the funding provider
// of executed transactions.
type Account struct {
	ctrl Controller
	addr vault.Address
}

// NewAccount returns the account of the given wallet address.
func NewAccount(ctrl Controller, addr vault.Address) *Account {
	return &Account{ctrl: ctrl, addr: addr}
}

// Address of the wallet this account spends from.
func (a *Account) Address() vault.Address {
	return a.addr
}

// Balance returns the value currently held.
func (a *Account) Balance(db vault.ReadOnlyKVStore) (coin.Coin, error) {
	return a.ctrl.Balance(db, a.addr)
}

// Transfer pays given amount to the recipient. Data is opaque to the fund
// and only passed along for the record.
func (a *Account) Transfer(db vault.KVStore, recipient vault.Address, amount coin.Coin, data []byte) error {
	return a.ctrl.Transfer(db, a.addr, recipient, amount)
}
