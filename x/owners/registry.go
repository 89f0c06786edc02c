package owners

import (
	"encoding/json"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Registry is the immutable set of owners and the approval quorum.
type Registry struct {
	owners []vault.Address
	quorum uint32
	index  map[string]struct{}
}

// NewRegistry returns a registry of given owners. ErrConfiguration is
// returned if the owner list is empty, contains duplicates or invalid
// addresses, or if the quorum is not within [1, len(owners)].
func NewRegistry(owners []vault.Address, quorum uint32) (*Registry, error) {
	r := newRegistry(owners, quorum)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func newRegistry(owners []vault.Address, quorum uint32) *Registry {
	r := &Registry{
		owners: make([]vault.Address, len(owners)),
		quorum: quorum,
		index:  make(map[string]struct{}, len(owners)),
	}
	for i, o := range owners {
		r.owners[i] = o.Clone()
		r.index[string(o)] = struct{}{}
	}
	return r
}

// Validate returns ErrConfiguration if the registry cannot be used.
func (r *Registry) Validate() error {
	var errs error
	if len(r.owners) == 0 {
		errs = errors.AppendField(errs, "Owners",
			errors.Wrap(errors.ErrConfiguration, "at least one owner required"))
	}
	seen := make(map[string]struct{}, len(r.owners))
	for i, o := range r.owners {
		if err := o.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Owners", errors.ErrConfiguration,
				"owner %d: invalid address: %s", i, err))
			continue
		}
		if _, ok := seen[string(o)]; ok {
			errs = errors.Append(errs, errors.Field("Owners", errors.ErrConfiguration,
				"owner %d: duplicated address %s", i, o))
		}
		seen[string(o)] = struct{}{}
	}
	if r.quorum < 1 || int(r.quorum) > len(r.owners) {
		errs = errors.Append(errs, errors.Field("Quorum", errors.ErrConfiguration,
			"quorum %d not within [1, %d]", r.quorum, len(r.owners)))
	}
	return errs
}

// IsOwner returns true if given address is one of the owners.
func (r *Registry) IsOwner(addr vault.Address) bool {
	_, ok := r.index[string(addr)]
	return ok
}

// Quorum returns the number of approvals required to execute a transaction.
func (r *Registry) Quorum() uint32 {
	return r.quorum
}

// Owners returns a copy of the owner list in declaration order.
func (r *Registry) Owners() []vault.Address {
	res := make([]vault.Address, len(r.owners))
	for i, o := range r.owners {
		res[i] = o.Clone()
	}
	return res
}

// Marshal serializes the registry using protobuf encoding.
func (r *Registry) Marshal() ([]byte, error) {
	msg := registryMsg{
		Metadata: &vault.Metadata{Schema: 1},
		Owners:   r.owners,
		Quorum:   r.quorum,
	}
	return proto.Marshal(&msg)
}

// Unmarshal loads the registry from its protobuf encoding.
func (r *Registry) Unmarshal(raw []byte) error {
	var msg registryMsg
	if err := proto.Unmarshal(raw, &msg); err != nil {
		return err
	}
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "registry")
	}
	*r = *newRegistry(msg.Owners, msg.Quorum)
	return nil
}

// registryMsg is the protobuf message representation of a Registry.
type registryMsg struct {
	Metadata *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	Owners   []vault.Address `protobuf:"bytes,2,rep,name=owners,proto3"`
	Quorum   uint32          `protobuf:"varint,3,opt,name=quorum,proto3"`
}

func (m *registryMsg) Reset()         { *m = registryMsg{} }
func (m *registryMsg) String() string { return proto.CompactTextString(m) }
func (*registryMsg) ProtoMessage()    {}

type registryJSON struct {
	Owners []vault.Address `json:"owners"`
	Quorum uint32          `json:"quorum"`
}

// MarshalJSON returns the genesis representation of the registry.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(registryJSON{Owners: r.owners, Quorum: r.quorum})
}

// UnmarshalJSON loads the registry from its genesis representation. The
// result is not validated.
func (r *Registry) UnmarshalJSON(raw []byte) error {
	var v registryJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*r = *newRegistry(v.Owners, v.Quorum)
	return nil
}
