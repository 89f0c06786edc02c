/*
Package eventsink streams ledger events to a Kafka topic.

Events are JSON encoded and keyed by transaction ID, so all events of a
transaction land in the same partition in order. Publishing is
asynchronous, a slow or unavailable broker never blocks the ledger.
*/
package eventsink

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/ledger"
	"github.com/segmentio/kafka-go"
	"github.com/tendermint/tendermint/libs/events"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultQueueSize is used when the configuration does not set one.
const DefaultQueueSize = 256

// Config of the Kafka sink.
type Config struct {
	Brokers   []string
	Topic     string
	QueueSize int
}

// Validate returns ErrConfiguration if the sink cannot be built.
func (c Config) Validate() error {
	var errs error
	if strings.TrimSpace(c.Topic) == "" {
		errs = errors.AppendField(errs, "Topic", errors.Wrap(errors.ErrConfiguration, "required"))
	}
	if len(c.Brokers) == 0 {
		errs = errors.AppendField(errs, "Brokers", errors.Wrap(errors.ErrConfiguration, "at least one broker is required"))
	}
	if c.QueueSize < 0 {
		errs = errors.AppendField(errs, "QueueSize", errors.Wrap(errors.ErrConfiguration, "must not be negative"))
	}
	return errs
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sink publishes ledger events to Kafka.
type Sink struct {
	writer messageWriter
	logger log.Logger
	queue  chan ledger.Event

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	// abort cancels publishing in flight, including the final drain.
	abort   context.CancelFunc
	done    chan struct{}
}

var _ ledger.Emitter = (*Sink)(nil)

// New returns a sink writing to the configured topic.
func New(cfg Config, logger log.Logger) (*Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
	}
	return newSink(w, cfg.QueueSize, logger), nil
}

func newSink(w messageWriter, queueSize int, logger log.Logger) *Sink {
	if queueSize == 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Sink{
		writer: w,
		logger: logger.With("module", "eventsink"),
		queue:  make(chan ledger.Event, queueSize),
		done:   make(chan struct{}),
	}
}

// Listen subscribes the sink to ledger events fired into given switch.
func (s *Sink) Listen(sw events.EventSwitch) error {
	return ledger.Subscribe(sw, "eventsink", s.Emit)
}

// Start launches the publishing loop.
func (s *Sink) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.Wrap(errors.ErrInvalidState, "sink already started")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	publishCtx, abort := context.WithCancel(context.Background())
	s.abort = abort
	s.started = true
	go s.run(ctx, publishCtx)
	return nil
}

// Stop finishes publishing queued events and closes the writer. If ctx is
// done first, publishing is aborted, the remaining events are dropped and
// the writer is closed anyway.
func (s *Sink) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.cancel()
	s.mu.Unlock()

	select {
	case <-s.done:
		s.abort()
	case <-ctx.Done():
		s.abort()
		s.logger.Error("stop timed out, queued events dropped", "pending", len(s.queue))
		if err := s.writer.Close(); err != nil {
			s.logger.Error("cannot close writer", "err", err)
		}
		return ctx.Err()
	}
	if err := s.writer.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Emit queues the event for publishing. The event is dropped if the queue
// is full.
func (s *Sink) Emit(ev ledger.Event) {
	select {
	case s.queue <- ev:
	default:
		s.logger.Error("queue full, event dropped", "event", ev.Kind, "id", ev.TransactionID)
	}
}

func (s *Sink) run(ctx, publishCtx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			s.drain(publishCtx)
			return
		case ev := <-s.queue:
			s.deliver(publishCtx, ev)
		}
	}
}

func (s *Sink) drain(ctx context.Context) {
	for ctx.Err() == nil {
		select {
		case ev := <-s.queue:
			s.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (s *Sink) deliver(ctx context.Context, ev ledger.Event) {
	msg, err := encode(ev)
	if err != nil {
		s.logger.Error("cannot encode event", "event", ev.Kind, "id", ev.TransactionID, "err", err)
		return
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error("cannot publish event", "event", ev.Kind, "id", ev.TransactionID, "err", err)
		return
	}
	s.logger.Debug("event published", "event", ev.Kind, "id", ev.TransactionID)
}

func encode(ev ledger.Event) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(ev.TransactionID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(ev.Kind)},
		},
	}, nil
}
