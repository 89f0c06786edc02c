package ledger

import (
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x"
	"github.com/tendermint/tendermint/libs/log"
)

// RegisterRoutes registers the handlers of this package.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(SubmitMsg{}.Path(), NewSubmitHandler(auth, ctrl))
	r.Handle(ApproveMsg{}.Path(), NewApproveHandler(auth, ctrl))
	r.Handle(RevokeMsg{}.Path(), NewRevokeHandler(auth, ctrl))
	r.Handle(ExecuteMsg{}.Path(), NewExecuteHandler(auth, ctrl))
}

// caller returns the address of the main signer. Nil is returned for an
// unsigned transaction and is never an owner.
func caller(ctx vault.Context, auth x.Authenticator) vault.Address {
	if c := x.MainSigner(ctx, auth); c != nil {
		return c.Address()
	}
	return nil
}

func logger(ctx vault.Context) log.Logger {
	return vault.GetLogger(ctx).With("module", "ledger")
}

// SubmitHandler creates transactions.
type SubmitHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = SubmitHandler{}

// NewSubmitHandler returns a handler of SubmitMsg.
func NewSubmitHandler(auth x.Authenticator, ctrl *Controller) SubmitHandler {
	return SubmitHandler{auth: auth, ctrl: ctrl}
}

// Check verifies the caller is allowed to submit the transaction.
func (h SubmitHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg *SubmitMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CheckSubmit(db, caller(ctx, h.auth), msg.Recipient, *msg.Amount, msg.Data); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver stores the transaction. Result data is the ID of the created
// transaction, encoded as 8 bytes.
func (h SubmitHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg *SubmitMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	who := caller(ctx, h.auth)
	id, err := h.ctrl.Submit(db, who, msg.Recipient, *msg.Amount, msg.Data)
	if err != nil {
		return nil, err
	}
	logger(ctx).Info("transaction submitted", "id", id, "caller", who, "amount", msg.Amount.String())
	return &vault.DeliverResult{
		Data: orm.EncodeSequence(id),
		Log:  fmt.Sprintf("transaction %d submitted", id),
	}, nil
}

// ApproveHandler adds approvals.
type ApproveHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = ApproveHandler{}

// NewApproveHandler returns a handler of ApproveMsg.
func NewApproveHandler(auth x.Authenticator, ctrl *Controller) ApproveHandler {
	return ApproveHandler{auth: auth, ctrl: ctrl}
}

func (h ApproveHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg *ApproveMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CheckApprove(db, caller(ctx, h.auth), msg.TransactionID); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h ApproveHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg *ApproveMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	who := caller(ctx, h.auth)
	if err := h.ctrl.Approve(db, who, msg.TransactionID); err != nil {
		return nil, err
	}
	logger(ctx).Info("transaction approved", "id", msg.TransactionID, "caller", who)
	return &vault.DeliverResult{Log: fmt.Sprintf("transaction %d approved", msg.TransactionID)}, nil
}

// RevokeHandler removes approvals.
type RevokeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = RevokeHandler{}

// NewRevokeHandler returns a handler of RevokeMsg.
func NewRevokeHandler(auth x.Authenticator, ctrl *Controller) RevokeHandler {
	return RevokeHandler{auth: auth, ctrl: ctrl}
}

func (h RevokeHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg *RevokeMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CheckRevoke(db, caller(ctx, h.auth), msg.TransactionID); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h RevokeHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg *RevokeMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	who := caller(ctx, h.auth)
	if err := h.ctrl.Revoke(db, who, msg.TransactionID); err != nil {
		return nil, err
	}
	logger(ctx).Info("approval revoked", "id", msg.TransactionID, "caller", who)
	return &vault.DeliverResult{Log: fmt.Sprintf("transaction %d approval revoked", msg.TransactionID)}, nil
}

// ExecuteHandler executes approved transactions.
type ExecuteHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = ExecuteHandler{}

// NewExecuteHandler returns a handler of ExecuteMsg.
func NewExecuteHandler(auth x.Authenticator, ctrl *Controller) ExecuteHandler {
	return ExecuteHandler{auth: auth, ctrl: ctrl}
}

// Check verifies the quorum. The fund balance is not checked, a transfer
// failure is reported by Deliver.
func (h ExecuteHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg *ExecuteMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CheckExecute(db, caller(ctx, h.auth), msg.TransactionID); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h ExecuteHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg *ExecuteMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	who := caller(ctx, h.auth)
	if err := h.ctrl.Execute(db, who, msg.TransactionID); err != nil {
		return nil, err
	}
	logger(ctx).Info("transaction executed", "id", msg.TransactionID, "caller", who)
	return &vault.DeliverResult{Log: fmt.Sprintf("transaction %d executed", msg.TransactionID)}, nil
}
