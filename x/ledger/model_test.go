package ledger

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestTransactionValidate(t *testing.T) {
	a := vaulttest.SequenceCondition(1).Address()
	b := vaulttest.SequenceCondition(2).Address()

	cases := map[string]struct {
		tx        Transaction
		wantField map[string]*errors.Error
	}{
		"valid": {
			tx: Transaction{
				Metadata:  &vault.Metadata{Schema: 1},
				Recipient: a,
				Amount:    coin.NewCoinp(1, 0, "IOV"),
				Approvals: []vault.Address{a, b},
			},
			wantField: map[string]*errors.Error{
				"Metadata":  nil,
				"Recipient": nil,
				"Amount":    nil,
				"Approvals": nil,
			},
		},
		"duplicated approval": {
			tx: Transaction{
				Metadata:  &vault.Metadata{Schema: 1},
				Recipient: a,
				Amount:    coin.NewCoinp(1, 0, "IOV"),
				Approvals: []vault.Address{a, b, a},
			},
			wantField: map[string]*errors.Error{
				"Approvals": errors.ErrDuplicate,
			},
		},
		"negative amount": {
			tx: Transaction{
				Metadata:  &vault.Metadata{Schema: 1},
				Recipient: a,
				Amount:    coin.NewCoinp(-1, 0, "IOV"),
			},
			wantField: map[string]*errors.Error{
				"Amount": errors.ErrAmount,
			},
		},
		"missing everything": {
			tx: Transaction{},
			wantField: map[string]*errors.Error{
				"Metadata":  errors.ErrMetadata,
				"Recipient": errors.ErrInput,
				"Amount":    errors.ErrAmount,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.tx.Validate()
			for field, want := range tc.wantField {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestTransactionSerialization(t *testing.T) {
	tx := Transaction{
		Metadata:  &vault.Metadata{Schema: 1},
		ID:        42,
		Recipient: vaulttest.SequenceCondition(1).Address(),
		Amount:    coin.NewCoinp(3, 14, "IOV"),
		Data:      []byte("call data"),
		Executed:  true,
		Approvals: []vault.Address{
			vaulttest.SequenceCondition(2).Address(),
			vaulttest.SequenceCondition(3).Address(),
		},
	}
	raw, err := tx.Marshal()
	assert.Nil(t, err)

	var got Transaction
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, tx, got)
}

func TestTransactionCopy(t *testing.T) {
	a := vaulttest.SequenceCondition(1).Address()
	tx := &Transaction{
		Metadata:  &vault.Metadata{Schema: 1},
		Recipient: a,
		Amount:    coin.NewCoinp(1, 0, "IOV"),
		Data:      []byte{1, 2},
		Approvals: []vault.Address{a},
	}
	cpy := tx.Copy()
	assert.Equal(t, tx, cpy)

	cpy.Approvals[0][0]++
	cpy.Amount.Whole = 7
	cpy.Data[0] = 9
	assert.Equal(t, true, tx.IsApprovedBy(a))
	assert.Equal(t, int64(1), tx.Amount.Whole)
	assert.Equal(t, byte(1), tx.Data[0])
}

func TestMsgValidate(t *testing.T) {
	meta := &vault.Metadata{Schema: 1}
	addr := vaulttest.SequenceCondition(1).Address()

	cases := map[string]struct {
		msg       vault.Msg
		wantField map[string]*errors.Error
	}{
		"valid submit": {
			msg: &SubmitMsg{Metadata: meta, Recipient: addr, Amount: coin.NewCoinp(1, 0, "IOV")},
			wantField: map[string]*errors.Error{
				"Metadata":  nil,
				"Recipient": nil,
				"Amount":    nil,
			},
		},
		"submit without amount": {
			msg: &SubmitMsg{Metadata: meta, Recipient: addr},
			wantField: map[string]*errors.Error{
				"Amount": errors.ErrAmount,
			},
		},
		"submit with invalid ticker": {
			msg: &SubmitMsg{Metadata: meta, Recipient: addr, Amount: coin.NewCoinp(1, 0, "iov")},
			wantField: map[string]*errors.Error{
				"Amount": errors.ErrCurrency,
			},
		},
		"valid approve": {
			msg:       &ApproveMsg{Metadata: meta, TransactionID: 3},
			wantField: map[string]*errors.Error{"Metadata": nil},
		},
		"revoke without metadata": {
			msg:       &RevokeMsg{TransactionID: 3},
			wantField: map[string]*errors.Error{"Metadata": errors.ErrMetadata},
		},
		"execute with invalid metadata": {
			msg:       &ExecuteMsg{Metadata: &vault.Metadata{}},
			wantField: map[string]*errors.Error{"Metadata": errors.ErrMetadata},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantField {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}
