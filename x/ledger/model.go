package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const (
	// BucketName is where transactions are stored.
	BucketName = "txs"
	// SequenceName is the transaction ID counter.
	SequenceName = "id"
)

// Transaction is a proposed transfer of value out of the vault.
type Transaction struct {
	Metadata  *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	ID        uint64          `protobuf:"varint,2,opt,name=id,proto3" json:"id"`
	Recipient vault.Address   `protobuf:"bytes,3,opt,name=recipient,proto3,casttype=github.com/iov-one/vault.Address" json:"recipient"`
	Amount    *coin.Coin      `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount"`
	Data      []byte          `protobuf:"bytes,5,opt,name=data,proto3" json:"data,omitempty"`
	Executed  bool            `protobuf:"varint,6,opt,name=executed,proto3" json:"executed"`
	// Approvals holds each approving owner once, in approval order.
	Approvals []vault.Address `protobuf:"bytes,7,rep,name=approvals,proto3,casttype=github.com/iov-one/vault.Address" json:"approvals"`
}

var _ orm.Model = (*Transaction)(nil)

// Validate ensures the stored state is consistent.
func (t *Transaction) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	errs = errors.AppendField(errs, "Recipient", t.Recipient.Validate())
	errs = errors.AppendField(errs, "Amount", validAmount(t.Amount))
	seen := make(map[string]struct{}, len(t.Approvals))
	for i, a := range t.Approvals {
		if err := a.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Approvals", err, "approval %d", i))
			continue
		}
		if _, ok := seen[string(a)]; ok {
			errs = errors.Append(errs, errors.Field("Approvals", errors.ErrDuplicate, "approval %d", i))
		}
		seen[string(a)] = struct{}{}
	}
	return errs
}

// ApprovalCount returns the number of distinct owners that approved the
// transaction.
func (t *Transaction) ApprovalCount() int {
	return len(t.Approvals)
}

// IsApprovedBy returns true if given owner approved the transaction.
func (t *Transaction) IsApprovedBy(owner vault.Address) bool {
	return t.approvalIndex(owner) >= 0
}

func (t *Transaction) approvalIndex(owner vault.Address) int {
	for i, a := range t.Approvals {
		if a.Equals(owner) {
			return i
		}
	}
	return -1
}

// Copy returns a deep copy of the transaction.
func (t *Transaction) Copy() *Transaction {
	approvals := make([]vault.Address, len(t.Approvals))
	for i, a := range t.Approvals {
		approvals[i] = a.Clone()
	}
	var data []byte
	if t.Data != nil {
		data = append([]byte{}, t.Data...)
	}
	return &Transaction{
		Metadata:  t.Metadata.Copy(),
		ID:        t.ID,
		Recipient: t.Recipient.Clone(),
		Amount:    t.Amount.Clone(),
		Data:      data,
		Executed:  t.Executed,
		Approvals: approvals,
	}
}

// Marshal serializes the transaction using protobuf encoding.
func (t *Transaction) Marshal() ([]byte, error) {
	return proto.Marshal((*transactionMsg)(t))
}

// Unmarshal loads the transaction from its protobuf encoding.
func (t *Transaction) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*transactionMsg)(t))
}

type transactionMsg Transaction

func (m *transactionMsg) Reset()         { *m = transactionMsg{} }
func (m *transactionMsg) String() string { return proto.CompactTextString(m) }
func (*transactionMsg) ProtoMessage()    {}

func validAmount(c *coin.Coin) error {
	if c == nil {
		return errors.Wrap(errors.ErrAmount, "required")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "must not be negative")
	}
	return nil
}

// Configuration of the ledger.
type Configuration struct {
	Metadata *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	// MaxDataLength is the longest data payload a transaction can carry.
	MaxDataLength int32 `protobuf:"varint,2,opt,name=max_data_length,json=maxDataLength,proto3" json:"max_data_length"`
}

// DefaultConfiguration is used when the genesis does not configure the
// ledger.
func DefaultConfiguration() Configuration {
	return Configuration{
		Metadata:      &vault.Metadata{Schema: 1},
		MaxDataLength: 1024,
	}
}

// Validate returns ErrConfiguration if the data limit is not positive.
func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if c.MaxDataLength <= 0 {
		errs = errors.AppendField(errs, "MaxDataLength",
			errors.Wrap(errors.ErrConfiguration, "must be greater than zero"))
	}
	return errs
}

// Marshal serializes the configuration using protobuf encoding.
func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationMsg)(c))
}

// Unmarshal loads the configuration from its protobuf encoding.
func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationMsg)(c))
}

type configurationMsg Configuration

func (m *configurationMsg) Reset()         { *m = configurationMsg{} }
func (m *configurationMsg) String() string { return proto.CompactTextString(m) }
func (*configurationMsg) ProtoMessage()    {}
