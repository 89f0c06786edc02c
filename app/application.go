package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// CommitStore is the durable state of an application.
type CommitStore interface {
	vault.CommitKVStore
	// Adapter returns the working state.
	Adapter() vault.CacheableKVStore
}

const initializedKey = "_app:initialized"

// Application executes serialized transactions against a commit store.
type Application struct {
	store   CommitStore
	decoder TxDecoder
	handler vault.Handler
	init    vault.Initializer
	logger  log.Logger
}

// NewApplication returns an application dispatching decoded transactions to
// given handler. Handler panics are recovered.
func NewApplication(store CommitStore, decoder TxDecoder, handler vault.Handler, init vault.Initializer) *Application {
	return &Application{
		store:   store,
		decoder: decoder,
		handler: NewRecovery(handler),
		init:    init,
		logger:  log.NewNopLogger(),
	}
}

// WithLogger sets the logger used by the application and passed to the
// handlers.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// InitChain runs all initializers with given genesis options and commits
// the result. A store can be initialized only once.
func (a *Application) InitChain(opts vault.Options) (vault.CommitID, error) {
	db := a.store.Adapter()
	switch ok, err := db.Has([]byte(initializedKey)); {
	case err != nil:
		return vault.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	case ok:
		return vault.CommitID{}, errors.Wrap(errors.ErrImmutable, "vault already initialized")
	}

	cache := db.CacheWrap()
	if err := a.init.FromGenesis(opts, cache); err != nil {
		cache.Discard()
		return vault.CommitID{}, errors.Wrap(err, "genesis")
	}
	if err := cache.Set([]byte(initializedKey), []byte{1}); err != nil {
		cache.Discard()
		return vault.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := cache.Write(); err != nil {
		return vault.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	a.logger.Info("vault initialized")
	return a.store.Commit()
}

// CheckTx validates the transaction against the current state. Nothing is
// written.
func (a *Application) CheckTx(ctx vault.Context, raw []byte) (*vault.CheckResult, error) {
	tx, err := a.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	ctx = vault.WithLogInfo(vault.WithLogger(ctx, a.logger), "call", "check_tx", "path", vault.GetPath(tx))

	cache := a.store.CacheWrap()
	defer cache.Discard()
	return a.handler.Check(ctx, cache, tx)
}

// DeliverTx executes the transaction and writes its changes to the working
// state. Handlers validate before writing, so changes made before a
// failure are kept. This keeps a transaction executed even if its transfer
// failed. Changes are dropped only when the handler panics.
func (a *Application) DeliverTx(ctx vault.Context, raw []byte) (*vault.DeliverResult, error) {
	tx, err := a.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	ctx = vault.WithLogInfo(vault.WithLogger(ctx, a.logger), "call", "deliver_tx", "path", vault.GetPath(tx))

	cache := a.store.CacheWrap()
	res, err := a.handler.Deliver(ctx, cache, tx)
	if errors.ErrPanic.Is(err) {
		cache.Discard()
		vault.GetLogger(ctx).Error("handler panic", "err", err)
		return nil, err
	}
	if werr := cache.Write(); werr != nil {
		return nil, errors.Wrap(errors.ErrDatabase, werr.Error())
	}
	return res, err
}

// Commit persists the working state.
func (a *Application) Commit() (vault.CommitID, error) {
	id, err := a.store.Commit()
	if err != nil {
		return id, err
	}
	a.logger.Debug("commit", "version", id.Version)
	return id, nil
}

// ReadStore returns the state used for queries.
func (a *Application) ReadStore() vault.ReadOnlyKVStore {
	return a.store.Adapter()
}
