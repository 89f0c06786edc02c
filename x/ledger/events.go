package ledger

import (
	"sync"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/events"
	"github.com/tendermint/tendermint/libs/log"
)

// EventKind names a ledger state transition.
type EventKind string

const (
	EventSubmitted EventKind = "submitted"
	EventApproved  EventKind = "approved"
	EventRevoked   EventKind = "revoked"
	EventExecuted  EventKind = "executed"
)

// EventKinds lists every kind of event the ledger emits.
var EventKinds = []EventKind{EventSubmitted, EventApproved, EventRevoked, EventExecuted}

// Event describes a successful ledger operation. Approved and Revoked carry
// only the caller and the transaction ID. Submitted and Executed carry the
// transfer details.
type Event struct {
	Kind          EventKind     `json:"kind"`
	TransactionID uint64        `json:"transaction_id"`
	Caller        vault.Address `json:"caller,omitempty"`
	Recipient     vault.Address `json:"recipient,omitempty"`
	Amount        *coin.Coin    `json:"amount,omitempty"`
	Data          []byte        `json:"data,omitempty"`
}

// Emitter is notified about every successful ledger operation. Emit must
// not influence the outcome of the operation.
type Emitter interface {
	Emit(Event)
}

// SwitchEmitter publishes events into a tendermint event switch, using the
// event kind as the event name. Listener panics are recovered and logged.
type SwitchEmitter struct {
	sw     events.EventSwitch
	logger log.Logger
}

var _ Emitter = (*SwitchEmitter)(nil)

// NewSwitchEmitter returns an emitter firing into given switch.
func NewSwitchEmitter(sw events.EventSwitch, logger log.Logger) *SwitchEmitter {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &SwitchEmitter{sw: sw, logger: logger.With("module", "ledger")}
}

// Emit fires the event.
func (e *SwitchEmitter) Emit(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event listener panic", "event", ev.Kind, "id", ev.TransactionID, "panic", r)
		}
	}()
	e.sw.FireEvent(string(ev.Kind), ev)
}

// Subscribe registers fn as a listener of every ledger event kind.
func Subscribe(sw events.EventSwitch, listenerID string, fn func(Event)) error {
	for _, kind := range EventKinds {
		err := sw.AddListenerForEvent(listenerID, string(kind), func(data events.EventData) {
			if ev, ok := data.(Event); ok {
				fn(ev)
			}
		})
		if err != nil {
			return errors.Wrapf(errors.ErrHuman, "subscribe %s to %s: %s", listenerID, kind, err)
		}
	}
	return nil
}

// Journal is an append-only, in-memory log of events. It is safe for
// concurrent use.
type Journal struct {
	mu     sync.RWMutex
	events []Event
}

var _ Emitter = (*Journal)(nil)

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Emit appends the event.
func (j *Journal) Emit(ev Event) {
	j.mu.Lock()
	j.events = append(j.events, ev)
	j.mu.Unlock()
}

// Listen subscribes the journal to given switch.
func (j *Journal) Listen(sw events.EventSwitch) error {
	return Subscribe(sw, "journal", j.Emit)
}

// Events returns a copy of all recorded events, oldest first.
func (j *Journal) Events() []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]Event(nil), j.events...)
}

// Len returns the number of recorded events.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.events)
}
