package ledger

import (
	"sync"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x/owners"
)

// PackageName is the key the configuration is stored under.
const PackageName = "ledger"

// Funder holds the value the ledger spends. Transfer is called only after
// the transaction was marked executed.
type Funder interface {
	Balance(db vault.ReadOnlyKVStore) (coin.Coin, error)
	Transfer(db vault.KVStore, recipient vault.Address, amount coin.Coin, data []byte) error
}

// Controller implements the transaction lifecycle. All operations are
// serialized, including the funder transfer of Execute, so a controller
// must be shared by everyone accessing the same store.
type Controller struct {
	mu      sync.Mutex
	bucket  orm.ModelBucket
	seq     orm.Sequence
	funder  Funder
	emitter Emitter
}

// NewController returns a controller spending from given funder. Emitter
// can be nil.
func NewController(funder Funder, emitter Emitter) *Controller {
	return &Controller{
		bucket:  orm.NewModelBucket(BucketName, &Transaction{}),
		seq:     orm.NewSequence(BucketName, SequenceName),
		funder:  funder,
		emitter: emitter,
	}
}

// LoadConfiguration returns the ledger configuration stored in the
// database.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load ledger configuration")
	}
	return &conf, nil
}

// Submit creates a new transaction and returns its ID. Submitting does not
// approve the transaction.
func (c *Controller) Submit(db vault.KVStore, caller, recipient vault.Address, amount coin.Coin, data []byte) (uint64, error) {
	defer c.lock(db)()

	if err := c.checkSubmit(db, caller, recipient, amount, data); err != nil {
		return 0, err
	}
	id, err := c.seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "next id")
	}
	tx := &Transaction{
		Metadata:  &vault.Metadata{Schema: 1},
		ID:        id,
		Recipient: recipient.Clone(),
		Amount:    &amount,
		Data:      append([]byte(nil), data...),
	}
	if err := c.save(db, tx); err != nil {
		return 0, err
	}
	c.emit(Event{
		Kind:          EventSubmitted,
		TransactionID: id,
		Caller:        caller.Clone(),
		Recipient:     recipient.Clone(),
		Amount:        amount.Clone(),
		Data:          append([]byte(nil), data...),
	})
	return id, nil
}

// CheckSubmit returns the error Submit would fail with, without modifying
// the state.
func (c *Controller) CheckSubmit(db vault.ReadOnlyKVStore, caller, recipient vault.Address, amount coin.Coin, data []byte) error {
	defer c.lock(db)()
	return c.checkSubmit(db, caller, recipient, amount, data)
}

func (c *Controller) checkSubmit(db vault.ReadOnlyKVStore, caller, recipient vault.Address, amount coin.Coin, data []byte) error {
	if err := authorize(db, caller); err != nil {
		return err
	}
	if err := recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := validAmount(&amount); err != nil {
		return errors.Wrap(err, "amount")
	}
	balance, err := c.funder.Balance(db)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	if !amount.SameType(balance) {
		return errors.Wrapf(errors.ErrCurrency, "vault holds %s, got %s", balance.Ticker, amount.Ticker)
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if len(data) > int(conf.MaxDataLength) {
		return errors.Wrapf(errors.ErrInput, "data longer than %d bytes", conf.MaxDataLength)
	}
	return nil
}

// Approve adds the caller to the approvals of the transaction.
func (c *Controller) Approve(db vault.KVStore, caller vault.Address, id uint64) error {
	defer c.lock(db)()

	tx, err := c.checkApprove(db, caller, id)
	if err != nil {
		return err
	}
	tx.Approvals = append(tx.Approvals, caller)
	if err := c.save(db, tx); err != nil {
		return err
	}
	c.emit(Event{Kind: EventApproved, TransactionID: id, Caller: caller})
	return nil
}

// CheckApprove returns the error Approve would fail with, without modifying
// the state.
func (c *Controller) CheckApprove(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) error {
	defer c.lock(db)()
	_, err := c.checkApprove(db, caller, id)
	return err
}

func (c *Controller) checkApprove(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) (*Transaction, error) {
	tx, err := c.pending(db, caller, id)
	if err != nil {
		return nil, err
	}
	if tx.IsApprovedBy(caller) {
		return nil, errors.Wrap(errors.ErrInvalidState, "transaction already approved by this caller")
	}
	return tx, nil
}

// Revoke removes the caller from the approvals of the transaction.
func (c *Controller) Revoke(db vault.KVStore, caller vault.Address, id uint64) error {
	defer c.lock(db)()

	tx, err := c.checkRevoke(db, caller, id)
	if err != nil {
		return err
	}
	i := tx.approvalIndex(caller)
	tx.Approvals = append(tx.Approvals[:i], tx.Approvals[i+1:]...)
	if err := c.save(db, tx); err != nil {
		return err
	}
	c.emit(Event{Kind: EventRevoked, TransactionID: id, Caller: caller})
	return nil
}

// CheckRevoke returns the error Revoke would fail with, without modifying
// the state.
func (c *Controller) CheckRevoke(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) error {
	defer c.lock(db)()
	_, err := c.checkRevoke(db, caller, id)
	return err
}

func (c *Controller) checkRevoke(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) (*Transaction, error) {
	tx, err := c.pending(db, caller, id)
	if err != nil {
		return nil, err
	}
	if !tx.IsApprovedBy(caller) {
		return nil, errors.Wrap(errors.ErrInvalidState, "transaction not approved by this caller yet")
	}
	return tx, nil
}

// Execute marks the transaction executed and transfers its amount to the
// recipient.
//
// The executed flag is persisted before the funder is called. The lock is
// held for the whole transfer. A failing transfer leaves the transaction
// executed. The funder receives a store bound to this call, so calling back
// into the controller with it does not wait for the lock and finds the
// transaction executed.
func (c *Controller) Execute(db vault.KVStore, caller vault.Address, id uint64) error {
	defer c.lock(db)()

	tx, err := c.checkExecute(db, caller, id)
	if err != nil {
		return err
	}
	tx.Executed = true
	if err := c.save(db, tx); err != nil {
		return err
	}

	nested := executing{KVStore: db, ctrl: c}
	if err := c.funder.Transfer(nested, tx.Recipient, *tx.Amount, tx.Data); err != nil {
		return errors.Wrapf(err, "transfer of transaction %d", id)
	}
	c.emit(Event{
		Kind:          EventExecuted,
		TransactionID: id,
		Caller:        caller,
		Recipient:     tx.Recipient,
		Amount:        tx.Amount.Clone(),
		Data:          tx.Data,
	})
	return nil
}

// CheckExecute returns the error Execute would fail with before reaching
// the transfer, without modifying the state.
func (c *Controller) CheckExecute(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) error {
	defer c.lock(db)()
	_, err := c.checkExecute(db, caller, id)
	return err
}

func (c *Controller) checkExecute(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) (*Transaction, error) {
	tx, err := c.pending(db, caller, id)
	if err != nil {
		return nil, err
	}
	r, err := owners.Load(db)
	if err != nil {
		return nil, err
	}
	if n := tx.ApprovalCount(); uint32(n) < r.Quorum() {
		return nil, errors.Wrapf(ErrQuorum, "%d of %d required", n, r.Quorum())
	}
	return tx, nil
}

// pending authorizes the caller and returns the transaction if it was not
// executed yet.
func (c *Controller) pending(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) (*Transaction, error) {
	if err := authorize(db, caller); err != nil {
		return nil, err
	}
	tx, err := c.load(db, id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, errors.Wrap(errors.ErrInvalidState, "transaction already executed")
	}
	return tx, nil
}

// ApprovalCount returns the number of owners that approved the transaction.
func (c *Controller) ApprovalCount(db vault.ReadOnlyKVStore, id uint64) (int, error) {
	tx, err := c.Transaction(db, id)
	if err != nil {
		return 0, err
	}
	return tx.ApprovalCount(), nil
}

// IsApprovedBy returns true if the owner approved the transaction.
func (c *Controller) IsApprovedBy(db vault.ReadOnlyKVStore, id uint64, owner vault.Address) (bool, error) {
	tx, err := c.Transaction(db, id)
	if err != nil {
		return false, err
	}
	return tx.IsApprovedBy(owner), nil
}

// Transaction returns a snapshot of the transaction.
func (c *Controller) Transaction(db vault.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	defer c.lock(db)()
	return c.load(db, id)
}

// Count returns how many transactions were ever submitted.
func (c *Controller) Count(db vault.ReadOnlyKVStore) (uint64, error) {
	defer c.lock(db)()
	return c.seq.Count(db)
}

// Transactions returns up to limit transactions in ID order, starting with
// the given ID. A limit of zero returns all remaining transactions.
func (c *Controller) Transactions(db vault.ReadOnlyKVStore, offset uint64, limit int) ([]*Transaction, error) {
	defer c.lock(db)()

	it, err := c.bucket.Range(db, orm.EncodeSequence(offset), nil)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Transaction
	for limit <= 0 || len(res) < limit {
		var tx Transaction
		switch _, err := it.LoadNext(&tx); {
		case err == nil:
			res = append(res, &tx)
		case orm.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
	return res, nil
}

// Balance returns the value held by the funder.
func (c *Controller) Balance(db vault.ReadOnlyKVStore) (coin.Coin, error) {
	return c.funder.Balance(db)
}

func (c *Controller) load(db vault.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	var tx Transaction
	if err := c.bucket.One(db, orm.EncodeSequence(id), &tx); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "transaction does not exist: %d", id)
		}
		return nil, err
	}
	return &tx, nil
}

// executing is the store handed to the funder while Execute holds the
// lock. Calls made with it run under that lock.
type executing struct {
	vault.KVStore
	ctrl *Controller
}

// lock acquires the controller lock unless db belongs to a transfer that
// already holds it. Use as defer c.lock(db)().
func (c *Controller) lock(db vault.ReadOnlyKVStore) func() {
	if e, ok := db.(executing); ok && e.ctrl == c {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

func (c *Controller) save(db vault.KVStore, tx *Transaction) error {
	return c.bucket.Put(db, orm.EncodeSequence(tx.ID), tx)
}

func (c *Controller) emit(ev Event) {
	if c.emitter != nil {
		c.emitter.Emit(ev)
	}
}

func authorize(db vault.ReadOnlyKVStore, caller vault.Address) error {
	r, err := owners.Load(db)
	if err != nil {
		return err
	}
	if !r.IsOwner(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "caller is not an owner")
	}
	return nil
}
