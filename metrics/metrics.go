/*
Package metrics exposes ledger activity and HTTP API usage as Prometheus
metrics.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/events"
)

// Metrics holds all collectors of the vault.
type Metrics struct {
	gatherer prometheus.Gatherer

	events       *prometheus.CounterVec
	executed     *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them in a new registry.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "ledger",
			Name:      "events_total",
			Help:      "Total count of ledger operations by event kind.",
		}, []string{"event"}),
		executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "ledger",
			Name:      "executed_amount",
			Help:      "Total value transferred by executed transactions.",
		}, []string{"ticker"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vault",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	for _, c := range []prometheus.Collector{m.events, m.executed, m.httpRequests, m.httpDuration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrConfiguration, "register collector: %s", err)
		}
	}
	for _, kind := range ledger.EventKinds {
		m.events.WithLabelValues(string(kind))
	}
	return m, nil
}

// Listen subscribes to ledger events fired into given switch.
func (m *Metrics) Listen(sw events.EventSwitch) error {
	return ledger.Subscribe(sw, "metrics", m.Emit)
}

// Emit records a ledger event.
func (m *Metrics) Emit(ev ledger.Event) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(string(ev.Kind)).Inc()
	if ev.Kind == ledger.EventExecuted && ev.Amount != nil {
		value := float64(ev.Amount.Whole) + float64(ev.Amount.Fractional)/1e9
		m.executed.WithLabelValues(ev.Amount.Ticker).Add(value)
	}
}

var _ ledger.Emitter = (*Metrics)(nil)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts requests and measures the response time of next.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequests.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
