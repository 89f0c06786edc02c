package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/vaulttest"
)

// signedTx is a minimal SignedTx. Its sign bytes are the serialized
// message.
type signedTx struct {
	vaulttest.Tx
	Signatures []*Signature
}

var _ SignedTx = (*signedTx)(nil)

func newSignedTx(payload string) *signedTx {
	return &signedTx{Tx: vaulttest.Tx{Msg: &vaulttest.Msg{
		RoutePath:  "test/payload",
		Serialized: []byte(payload),
	}}}
}

func (tx *signedTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

func (tx *signedTx) GetSignatures() []*Signature {
	return tx.Signatures
}

// signersHandler records the signers revealed by the Authenticator.
type signersHandler struct {
	signers []vault.Condition
}

func (h *signersHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	h.signers = Authenticator{}.GetConditions(ctx)
	return &vault.CheckResult{}, nil
}

func (h *signersHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	h.signers = Authenticator{}.GetConditions(ctx)
	return &vault.DeliverResult{}, nil
}
