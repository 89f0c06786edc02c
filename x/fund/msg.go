package fund

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
)

var _ vault.Msg = (*DepositMsg)(nil)

// DepositMsg adds value to the vault wallet. The depositor must sign the
// transaction but is not debited, deposits originate outside of the vault.
type DepositMsg struct {
	Metadata  *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	Depositor vault.Address   `protobuf:"bytes,2,opt,name=depositor,proto3,casttype=github.com/iov-one/vault.Address" json:"depositor"`
	Amount    *coin.Coin      `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
}

// Path returns the routing path for this message.
func (DepositMsg) Path() string {
	return "fund/deposit"
}

// Validate makes sure that this is sensible.
func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Depositor", m.Depositor.Validate())
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	return errs
}

// Marshal serializes the message using protobuf encoding.
func (m *DepositMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*depositMsg)(m))
}

// Unmarshal loads the message from its protobuf encoding.
func (m *DepositMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*depositMsg)(m))
}

type depositMsg DepositMsg

func (m *depositMsg) Reset()         { *m = depositMsg{} }
func (m *depositMsg) String() string { return proto.CompactTextString(m) }
func (*depositMsg) ProtoMessage()    {}
