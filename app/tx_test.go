package app

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/iov-one/vault/x/fund"
	"github.com/iov-one/vault/x/ledger"
)

func TestTxDecoder(t *testing.T) {
	d := Decoder()
	msgs := []vault.Msg{
		&ledger.SubmitMsg{
			Metadata:  &vault.Metadata{Schema: 1},
			Recipient: vaulttest.SequenceCondition(1).Address(),
			Amount:    coin.NewCoinp(2, 0, "IOV"),
			Data:      []byte("data"),
		},
		&ledger.ApproveMsg{Metadata: &vault.Metadata{Schema: 1}, TransactionID: 4},
		&ledger.RevokeMsg{Metadata: &vault.Metadata{Schema: 1}, TransactionID: 5},
		&ledger.ExecuteMsg{Metadata: &vault.Metadata{Schema: 1}, TransactionID: 6},
		&fund.DepositMsg{
			Metadata:  &vault.Metadata{Schema: 1},
			Depositor: vaulttest.SequenceCondition(2).Address(),
			Amount:    coin.NewCoinp(1, 0, "IOV"),
		},
	}

	for _, msg := range msgs {
		t.Run(msg.Path(), func(t *testing.T) {
			raw, err := NewTx(msg).Marshal()
			assert.Nil(t, err)

			tx, err := d.Decode(raw)
			assert.Nil(t, err)
			got, err := tx.GetMsg()
			assert.Nil(t, err)
			assert.Equal(t, msg, got)
		})
	}
}

func TestTxDecoderErrors(t *testing.T) {
	d := NewTxDecoder(&ledger.ApproveMsg{})

	_, err := d.Decode([]byte{0xff, 0xff, 0xff})
	assert.IsErr(t, errors.ErrInput, err)

	raw, err := NewTx(&ledger.RevokeMsg{Metadata: &vault.Metadata{Schema: 1}}).Marshal()
	assert.Nil(t, err)
	_, err = d.Decode(raw)
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = (&Tx{}).Marshal()
	assert.IsErr(t, errors.ErrMsg, err)
	_, err = (&Tx{}).GetMsg()
	assert.IsErr(t, errors.ErrMsg, err)
	assert.IsErr(t, errors.ErrHuman, (&Tx{}).Unmarshal(raw))

	assert.Panics(t, func() { NewTxDecoder(&ledger.ApproveMsg{}, &ledger.ApproveMsg{}) })
}

func TestSignedTxRoundtrip(t *testing.T) {
	key := vaulttest.SequenceKey(1)
	tx := NewTx(&ledger.ApproveMsg{Metadata: &vault.Metadata{Schema: 1}, TransactionID: 2})
	unsigned, err := tx.GetSignBytes()
	assert.Nil(t, err)

	assert.Nil(t, tx.Sign(key, 7))
	raw, err := tx.Marshal()
	assert.Nil(t, err)

	got, err := Decoder().Decode(raw)
	assert.Nil(t, err)
	signBytes, err := got.GetSignBytes()
	assert.Nil(t, err)
	assert.Equal(t, unsigned, signBytes)

	sigs := got.GetSignatures()
	assert.Equal(t, 1, len(sigs))
	assert.Equal(t, int64(7), sigs[0].Sequence)
	assert.Equal(t, key.PublicKey(), sigs[0].PublicKey)
}
