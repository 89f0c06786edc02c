package metrics

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/x/ledger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/events"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLedgerEvents(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	sw := events.NewEventSwitch()
	require.NoError(t, sw.Start())
	defer sw.Stop()
	require.NoError(t, m.Listen(sw))

	emitter := ledger.NewSwitchEmitter(sw, log.NewNopLogger())
	emitter.Emit(ledger.Event{Kind: ledger.EventSubmitted, TransactionID: 0})
	emitter.Emit(ledger.Event{Kind: ledger.EventApproved, TransactionID: 0})
	emitter.Emit(ledger.Event{Kind: ledger.EventApproved, TransactionID: 0})
	emitter.Emit(ledger.Event{Kind: ledger.EventExecuted, TransactionID: 0, Amount: coin.NewCoinp(2, 500000000, "IOV")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("submitted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("approved")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.events.WithLabelValues("revoked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("executed")))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.executed.WithLabelValues("IOV")))
}

func TestHandler(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	wrapped := m.WrapHandler("teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/teapot", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("teapot", "418")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := ioutil.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "vault_ledger_events_total"))
	assert.True(t, strings.Contains(string(body), `vault_http_requests_total{route="teapot",status="418"} 1`))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Emit(ledger.Event{Kind: ledger.EventSubmitted})

	rec := httptest.NewRecorder()
	m.WrapHandler("x", http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
