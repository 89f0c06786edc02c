package fund

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
)

// Wallet is the balance of a single address.
type Wallet struct {
	Metadata *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	Amount   *coin.Coin      `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount"`
}

// Validate ensures the balance is a valid, non-negative amount.
func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", w.Metadata.Validate())
	if w.Amount == nil {
		errs = errors.AppendField(errs, "Amount", errors.ErrEmpty)
	} else if err := w.Amount.Validate(); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if !w.Amount.IsNonNegative() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "negative balance"))
	}
	return errs
}

// Marshal serializes the wallet using protobuf encoding.
func (w *Wallet) Marshal() ([]byte, error) {
	return proto.Marshal((*walletMsg)(w))
}

// Unmarshal loads the wallet from its protobuf encoding.
func (w *Wallet) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*walletMsg)(w))
}

type walletMsg Wallet

func (m *walletMsg) Reset()         { *m = walletMsg{} }
func (m *walletMsg) String() string { return proto.CompactTextString(m) }
func (*walletMsg) ProtoMessage()    {}

// Configuration of the fund.
type Configuration struct {
	Metadata *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	// Ticker is the only currency the fund accepts.
	Ticker string `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker"`
}

// Validate returns ErrConfiguration if the ticker is not a valid currency
// code.
func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if !coin.IsCC(c.Ticker) {
		errs = errors.AppendField(errs, "Ticker",
			errors.Wrapf(errors.ErrConfiguration, "invalid currency code %q", c.Ticker))
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
