package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where signer accounts are stored.
const BucketName = "sigs"

// maxSequenceValue is the greatest sequence a client can represent.
const maxSequenceValue = (1 << 53) - 1

// Account is the signing state of a single public key.
type Account struct {
	Metadata  *vault.Metadata  `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	PublicKey crypto.PublicKey `protobuf:"bytes,2,opt,name=public_key,proto3,casttype=github.com/iov-one/vault/crypto.PublicKey" json:"public_key"`
	// Sequence is the sequence the next signature must carry.
	Sequence int64 `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	if len(a.PublicKey) == 0 {
		errs = errors.AppendField(errs, "PublicKey", errors.ErrEmpty)
	}
	if a.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", errors.Wrap(ErrInvalidSequence, "negative"))
	}
	return errs
}

// CheckAndIncrementSequence increments the sequence if it is equal to the
// expected value.
func (a *Account) CheckAndIncrementSequence(expected int64) error {
	if a.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", a.Sequence, expected)
	}
	next := a.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	a.Sequence = next
	return nil
}

// Marshal serializes the account using protobuf encoding.
func (a *Account) Marshal() ([]byte, error) {
	return proto.Marshal((*accountMsg)(a))
}

// Unmarshal loads the account from its protobuf encoding.
func (a *Account) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*accountMsg)(a))
}

type accountMsg Account

func (m *accountMsg) Reset()         { *m = accountMsg{} }
func (m *accountMsg) String() string { return proto.CompactTextString(m) }
func (*accountMsg) ProtoMessage()    {}

// Signature is attached to a transaction by each of its signers.
type Signature struct {
	PublicKey crypto.PublicKey `protobuf:"bytes,1,opt,name=public_key,proto3,casttype=github.com/iov-one/vault/crypto.PublicKey" json:"public_key"`
	Signature []byte           `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature"`
	Sequence  int64            `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence"`
}

// Validate ensures the signature is complete. It does not verify it.
func (s *Signature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.PublicKey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// Marshal serializes the signature using protobuf encoding.
func (s *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signatureMsg)(s))
}

// Unmarshal loads the signature from its protobuf encoding.
func (s *Signature) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*signatureMsg)(s))
}

type signatureMsg Signature

func (m *signatureMsg) Reset()         { *m = signatureMsg{} }
func (m *signatureMsg) String() string { return proto.CompactTextString(m) }
func (*signatureMsg) ProtoMessage()    {}
