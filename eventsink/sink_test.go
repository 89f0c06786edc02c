package eventsink

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/iov-one/vault/x/ledger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu      sync.Mutex
	msgs    []kafka.Message
	err     error
	closed  bool
	release chan struct{}
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.release != nil {
		select {
		case <-w.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

func (w *recordingWriter) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *recordingWriter) messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		cfg       Config
		wantField map[string]*errors.Error
	}{
		"valid": {
			cfg: Config{Brokers: []string{"localhost:9092"}, Topic: "vault.events"},
			wantField: map[string]*errors.Error{
				"Topic":   nil,
				"Brokers": nil,
			},
		},
		"empty": {
			cfg: Config{QueueSize: -1},
			wantField: map[string]*errors.Error{
				"Topic":     errors.ErrConfiguration,
				"Brokers":   errors.ErrConfiguration,
				"QueueSize": errors.ErrConfiguration,
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.cfg.Validate()
			for field, want := range tc.wantField {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestPublish(t *testing.T) {
	w := &recordingWriter{}
	s := newSink(w, 0, nil)
	require.NoError(t, s.Start(context.Background()))

	recipient := vaulttest.SequenceCondition(1).Address()
	s.Emit(ledger.Event{Kind: ledger.EventSubmitted, TransactionID: 7, Recipient: recipient, Amount: coin.NewCoinp(1, 0, "IOV")})
	s.Emit(ledger.Event{Kind: ledger.EventApproved, TransactionID: 7, Caller: recipient})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	msgs := w.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "7", string(msgs[0].Key))
	assert.Equal(t, "submitted", string(msgs[0].Headers[0].Value))

	var ev ledger.Event
	require.NoError(t, json.Unmarshal(msgs[0].Value, &ev))
	assert.Equal(t, ledger.EventSubmitted, ev.Kind)
	assert.Equal(t, recipient, ev.Recipient)
	assert.Equal(t, coin.NewCoinp(1, 0, "IOV"), ev.Amount)
	assert.Equal(t, true, w.closed)
}

func TestQueueOverflowDropsEvents(t *testing.T) {
	w := &recordingWriter{release: make(chan struct{})}
	s := newSink(w, 1, nil)

	// Not started, so nothing consumes the queue.
	s.Emit(ledger.Event{Kind: ledger.EventSubmitted, TransactionID: 1})
	s.Emit(ledger.Event{Kind: ledger.EventSubmitted, TransactionID: 2})
	assert.Equal(t, 1, len(s.queue))

	close(w.release)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	msgs := w.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "1", string(msgs[0].Key))
}

func TestWriterFailureIsNotFatal(t *testing.T) {
	w := &recordingWriter{err: errors.ErrDatabase}
	s := newSink(w, 0, nil)
	require.NoError(t, s.Start(context.Background()))
	s.Emit(ledger.Event{Kind: ledger.EventRevoked, TransactionID: 3})
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, 0, len(w.messages()))

	assert.IsErr(t, errors.ErrInvalidState, s.Start(context.Background()))
}

func TestStopTimeoutAbortsPublishing(t *testing.T) {
	// The writer never completes a write unless its context is cancelled.
	w := &recordingWriter{release: make(chan struct{})}
	s := newSink(w, 0, nil)
	require.NoError(t, s.Start(context.Background()))
	for i := uint64(0); i < 3; i++ {
		s.Emit(ledger.Event{Kind: ledger.EventSubmitted, TransactionID: i})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.Stop(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
	assert.Equal(t, true, w.isClosed())

	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishing loop did not exit after stop timed out")
	}
	assert.Equal(t, 0, len(w.messages()))
}
