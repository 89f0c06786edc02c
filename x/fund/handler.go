package fund

import (
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

// RegisterRoutes registers the handlers of this package.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(DepositMsg{}.Path(), NewDepositHandler(auth, ctrl, VaultAddress()))
}

// DepositHandler credits the vault wallet.
type DepositHandler struct {
	auth  x.Authenticator
	ctrl  Controller
	vault vault.Address
}

var _ vault.Handler = DepositHandler{}

// NewDepositHandler returns a handler crediting deposits to given wallet.
func NewDepositHandler(auth x.Authenticator, ctrl Controller, dest vault.Address) DepositHandler {
	return DepositHandler{auth: auth, ctrl: ctrl, vault: dest}
}

// Check verifies the message is well formed and signed by the depositor.
func (h DepositHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver credits the vault wallet with the deposited amount.
func (h DepositHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Deposit(db, h.vault, *msg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	vault.GetLogger(ctx).Info("deposit", "depositor", msg.Depositor, "amount", msg.Amount.String())
	return &vault.DeliverResult{Log: fmt.Sprintf("deposited %s", msg.Amount)}, nil
}

func (h DepositHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*DepositMsg, error) {
	var msg *DepositMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Depositor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature missing")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if msg.Amount.Ticker != conf.Ticker {
		return nil, errors.Wrapf(errors.ErrCurrency, "fund accepts only %s", conf.Ticker)
	}
	return msg, nil
}
