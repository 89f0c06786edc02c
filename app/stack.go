package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/fund"
	"github.com/iov-one/vault/x/ledger"
	"github.com/iov-one/vault/x/owners"
	"github.com/iov-one/vault/x/sigs"
	"github.com/tendermint/tendermint/libs/events"
	"github.com/tendermint/tendermint/libs/log"
)

// Vault bundles the components of a running vault.
type Vault struct {
	*Application
	Ledger  *ledger.Controller
	Funds   fund.Controller
	Events  events.EventSwitch
	Journal *ledger.Journal
}

// Decoder returns a decoder of all messages a vault handles.
func Decoder() TxDecoder {
	return NewTxDecoder(
		&ledger.SubmitMsg{},
		&ledger.ApproveMsg{},
		&ledger.RevokeMsg{},
		&ledger.ExecuteMsg{},
		&fund.DepositMsg{},
	)
}

// Initializer returns the initializer of all extensions.
func Initializer() vault.Initializer {
	return ChainInitializers(
		&owners.Initializer{},
		fund.Initializer{},
		ledger.Initializer{},
	)
}

// Stack assembles a vault over given store. Callers are authenticated by
// the signatures of a transaction and by the conditions stored in the
// context with x.WithConditions. The returned event switch is started,
// subscribe further listeners to it before delivering transactions.
func Stack(store CommitStore, logger log.Logger) (*Vault, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	sw := events.NewEventSwitch()
	if err := sw.Start(); err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "start event switch: %s", err)
	}
	journal := ledger.NewJournal()
	if err := journal.Listen(sw); err != nil {
		return nil, err
	}

	funds := fund.NewController()
	ctrl := ledger.NewController(
		fund.NewAccount(funds, fund.VaultAddress()),
		ledger.NewSwitchEmitter(sw, logger),
	)

	auth := x.ChainAuth(sigs.Authenticator{}, x.ContextAuth{})
	r := NewRouter()
	fund.RegisterRoutes(r, auth, funds)
	ledger.RegisterRoutes(r, auth, ctrl)

	h := sigs.NewHandler(r).AllowMissingSigs()
	a := NewApplication(store, Decoder(), h, Initializer()).WithLogger(logger)
	return &Vault{
		Application: a,
		Ledger:      ctrl,
		Funds:       funds,
		Events:      sw,
		Journal:     journal,
	}, nil
}

// Close stops the event switch.
func (v *Vault) Close() {
	_ = v.Events.Stop()
}
