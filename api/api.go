/*
Package api serves a read-only JSON view of a vault over HTTP.

	GET /owners
	GET /transactions?offset=<id>&limit=<n>
	GET /transactions/{id}
	GET /transactions/{id}/approvals/{owner}
	GET /balance
	GET /metrics

Failures are rendered as {"code": <error code>, "log": <message>}.
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/metrics"
	"github.com/iov-one/vault/x/ledger"
	"github.com/iov-one/vault/x/owners"
	"github.com/tendermint/tendermint/libs/log"
)

// PaginationMaxItems is the maximum number of transactions returned by a
// single listing.
const PaginationMaxItems = 50

// Reader provides the state queries are served from.
type Reader interface {
	ReadStore() vault.ReadOnlyKVStore
}

type server struct {
	reader Reader
	ledger *ledger.Controller
	logger log.Logger
}

// NewRouter returns the HTTP handler of the API. Metrics can be nil, in
// which case requests are not measured and /metrics is not served.
func NewRouter(reader Reader, ctrl *ledger.Controller, m *metrics.Metrics, logger log.Logger) http.Handler {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &server{reader: reader, ledger: ctrl, logger: logger.With("module", "api")}

	r := mux.NewRouter()
	handle := func(route string, fn http.HandlerFunc) {
		r.Handle(route, m.WrapHandler(route, fn)).Methods(http.MethodGet)
	}
	handle("/owners", s.owners)
	handle("/transactions", s.transactions)
	handle("/transactions/{id:[0-9]+}", s.transaction)
	handle("/transactions/{id:[0-9]+}/approvals/{owner}", s.approval)
	handle("/balance", s.balance)
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, errors.Wrapf(errors.ErrNotFound, "no route %s", r.URL.Path))
	})
	return r
}

func (s *server) owners(w http.ResponseWriter, r *http.Request) {
	reg, err := owners.Load(s.reader.ReadStore())
	if err != nil {
		s.fail(w, err)
		return
	}
	JSONResp(w, http.StatusOK, reg)
}

func (s *server) transactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset, err := uintParam(query.Get("offset"), 0)
	if err != nil {
		s.fail(w, errors.Wrap(err, "offset"))
		return
	}
	limit, err := uintParam(query.Get("limit"), PaginationMaxItems)
	if err != nil {
		s.fail(w, errors.Wrap(err, "limit"))
		return
	}
	if limit == 0 || limit > PaginationMaxItems {
		limit = PaginationMaxItems
	}

	db := s.reader.ReadStore()
	txs, err := s.ledger.Transactions(db, offset, int(limit))
	if err != nil {
		s.fail(w, err)
		return
	}
	count, err := s.ledger.Count(db)
	if err != nil {
		s.fail(w, err)
		return
	}
	if txs == nil {
		txs = []*ledger.Transaction{}
	}
	JSONResp(w, http.StatusOK, struct {
		Count        uint64                `json:"count"`
		Transactions []*ledger.Transaction `json:"transactions"`
	}{
		Count:        count,
		Transactions: txs,
	})
}

func (s *server) transaction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	tx, err := s.ledger.Transaction(s.reader.ReadStore(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	JSONResp(w, http.StatusOK, tx)
}

func (s *server) approval(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	owner, err := vault.ParseAddress(mux.Vars(r)["owner"])
	if err != nil {
		s.fail(w, errors.Wrap(err, "owner"))
		return
	}
	ok, err := s.ledger.IsApprovedBy(s.reader.ReadStore(), id, owner)
	if err != nil {
		s.fail(w, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		TransactionID uint64        `json:"transaction_id"`
		Owner         vault.Address `json:"owner"`
		Approved      bool          `json:"approved"`
	}{
		TransactionID: id,
		Owner:         owner,
		Approved:      ok,
	})
}

func (s *server) balance(w http.ResponseWriter, r *http.Request) {
	b, err := s.ledger.Balance(s.reader.ReadStore())
	if err != nil {
		s.fail(w, err)
		return
	}
	JSONResp(w, http.StatusOK, b)
}

func (s *server) fail(w http.ResponseWriter, err error) {
	if HTTPStatus(err) == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	JSONErr(w, err)
}

func idParam(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "transaction id: %s", err)
	}
	return id, nil
}

func uintParam(raw string, fallback uint64) (uint64, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInput, err.Error())
	}
	return n, nil
}

// HTTPStatus returns the response status matching the root cause of err.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrUnauthorized.Is(err):
		return http.StatusUnauthorized
	case errors.ErrInput.Is(err), errors.ErrMsg.Is(err), errors.ErrEmpty.Is(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// JSONResp writes content as JSON encoded response.
func JSONResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"code":1,"log":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr writes err as JSON encoded response. Errors not registered in
// the errors package are reported as internal errors.
func JSONErr(w http.ResponseWriter, err error) {
	code, msg := errors.Info(err, false)
	JSONResp(w, HTTPStatus(err), struct {
		Code uint32 `json:"code"`
		Log  string `json:"log"`
	}{
		Code: code,
		Log:  msg,
	})
}
