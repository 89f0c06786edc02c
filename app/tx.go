package app

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/sigs"
)

// Tx is the transaction envelope. It carries a single message together with
// its path, so that the message type is known before it is decoded, and the
// signatures of the message.
type Tx struct {
	msg        vault.Msg
	signatures []*sigs.Signature
}

var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps a message.
func NewTx(msg vault.Msg) *Tx {
	return &Tx{msg: msg}
}

// GetMsg returns the wrapped message.
func (tx *Tx) GetMsg() (vault.Msg, error) {
	if tx.msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.msg, nil
}

// Sign appends the signature of key with given sequence. Use
// sigs.NextSequence to learn the sequence of a signer.
func (tx *Tx) Sign(key *crypto.PrivateKey, seq int64) error {
	sig, err := sigs.SignTx(key, tx, seq)
	if err != nil {
		return err
	}
	tx.signatures = append(tx.signatures, sig)
	return nil
}

// GetSignatures returns the signatures of the message.
func (tx *Tx) GetSignatures() []*sigs.Signature {
	return tx.signatures
}

// GetSignBytes returns the serialized envelope without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	env, err := tx.envelope()
	if err != nil {
		return nil, err
	}
	return proto.Marshal(env)
}

// Marshal serializes the envelope, the message and the signatures using
// protobuf encoding.
func (tx *Tx) Marshal() ([]byte, error) {
	env, err := tx.envelope()
	if err != nil {
		return nil, err
	}
	env.Signatures = tx.signatures
	return proto.Marshal(env)
}

func (tx *Tx) envelope() (*envelope, error) {
	if tx.msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	raw, err := tx.msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return &envelope{Path: tx.msg.Path(), Msg: raw}, nil
}

// Unmarshal is not supported, the message type is unknown to the envelope.
// Use TxDecoder.
func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "use TxDecoder to decode transactions")
}

type envelope struct {
	Path       string            `protobuf:"bytes,1,opt,name=path,proto3"`
	Msg        []byte            `protobuf:"bytes,2,opt,name=msg,proto3"`
	Signatures []*sigs.Signature `protobuf:"bytes,3,rep,name=signatures,proto3"`
}

func (m *envelope) Reset()         { *m = envelope{} }
func (m *envelope) String() string { return proto.CompactTextString(m) }
func (*envelope) ProtoMessage()    {}

// TxDecoder decodes transactions carrying any of the registered messages.
type TxDecoder struct {
	msgs map[string]reflect.Type
}

// NewTxDecoder returns a decoder for transactions carrying messages of the
// same type as the examples. It panics if two messages share a path.
func NewTxDecoder(examples ...vault.Msg) TxDecoder {
	d := TxDecoder{msgs: make(map[string]reflect.Type)}
	for _, m := range examples {
		path := m.Path()
		if _, ok := d.msgs[path]; ok {
			panic("duplicated message path: " + path)
		}
		d.msgs[path] = reflect.TypeOf(m).Elem()
	}
	return d
}

// Decode returns the transaction serialized by Tx.Marshal. ErrInput is
// returned for malformed data and ErrMsg for an unknown message path.
func (d TxDecoder) Decode(raw []byte) (*Tx, error) {
	var env envelope
	if err := proto.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "envelope: %s", err)
	}
	typ, ok := d.msgs[env.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", env.Path)
	}
	msg := reflect.New(typ).Interface().(vault.Msg)
	if err := msg.Unmarshal(env.Msg); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "message: %s", err)
	}
	return &Tx{msg: msg, signatures: env.Signatures}, nil
}
