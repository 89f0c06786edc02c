package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
)

var (
	_ vault.Msg = (*SubmitMsg)(nil)
	_ vault.Msg = (*ApproveMsg)(nil)
	_ vault.Msg = (*RevokeMsg)(nil)
	_ vault.Msg = (*ExecuteMsg)(nil)
)

// SubmitMsg proposes a new transaction.
type SubmitMsg struct {
	Metadata  *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	Recipient vault.Address   `protobuf:"bytes,2,opt,name=recipient,proto3,casttype=github.com/iov-one/vault.Address" json:"recipient"`
	Amount    *coin.Coin      `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
	Data      []byte          `protobuf:"bytes,4,opt,name=data,proto3" json:"data,omitempty"`
}

// Path returns the routing path for this message.
func (SubmitMsg) Path() string {
	return "ledger/submit"
}

// Validate makes sure that this is sensible.
func (m *SubmitMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	errs = errors.AppendField(errs, "Amount", validAmount(m.Amount))
	return errs
}

// Marshal serializes the message using protobuf encoding.
func (m *SubmitMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*submitMsg)(m))
}

// Unmarshal loads the message from its protobuf encoding.
func (m *SubmitMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*submitMsg)(m))
}

type submitMsg SubmitMsg

func (m *submitMsg) Reset()         { *m = submitMsg{} }
func (m *submitMsg) String() string { return proto.CompactTextString(m) }
func (*submitMsg) ProtoMessage()    {}

// ApproveMsg adds the signer to the approvals of a transaction.
type ApproveMsg struct {
	Metadata      *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	TransactionID uint64          `protobuf:"varint,2,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
}

// Path returns the routing path for this message.
func (ApproveMsg) Path() string {
	return "ledger/approve"
}

// Validate makes sure that this is sensible.
func (m *ApproveMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "")
}

// Marshal serializes the message using protobuf encoding.
func (m *ApproveMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*approveMsg)(m))
}

// Unmarshal loads the message from its protobuf encoding.
func (m *ApproveMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*approveMsg)(m))
}

type approveMsg ApproveMsg

func (m *approveMsg) Reset()         { *m = approveMsg{} }
func (m *approveMsg) String() string { return proto.CompactTextString(m) }
func (*approveMsg) ProtoMessage()    {}

// RevokeMsg removes the signer from the approvals of a transaction.
type RevokeMsg struct {
	Metadata      *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	TransactionID uint64          `protobuf:"varint,2,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
}

// Path returns the routing path for this message.
func (RevokeMsg) Path() string {
	return "ledger/revoke"
}

// Validate makes sure that this is sensible.
func (m *RevokeMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "")
}

// Marshal serializes the message using protobuf encoding.
func (m *RevokeMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*revokeMsg)(m))
}

// Unmarshal loads the message from its protobuf encoding.
func (m *RevokeMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*revokeMsg)(m))
}

type revokeMsg RevokeMsg

func (m *revokeMsg) Reset()         { *m = revokeMsg{} }
func (m *revokeMsg) String() string { return proto.CompactTextString(m) }
func (*revokeMsg) ProtoMessage()    {}

// ExecuteMsg executes an approved transaction.
type ExecuteMsg struct {
	Metadata      *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	TransactionID uint64          `protobuf:"varint,2,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
}

// Path returns the routing path for this message.
func (ExecuteMsg) Path() string {
	return "ledger/execute"
}

// Validate makes sure that this is sensible.
func (m *ExecuteMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "")
}

// Marshal serializes the message using protobuf encoding.
func (m *ExecuteMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*executeMsg)(m))
}

// Unmarshal loads the message from its protobuf encoding.
func (m *ExecuteMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*executeMsg)(m))
}

type executeMsg ExecuteMsg

func (m *executeMsg) Reset()         { *m = executeMsg{} }
func (m *executeMsg) String() string { return proto.CompactTextString(m) }
func (*executeMsg) ProtoMessage()    {}
