package orm

import "github.com/iov-one/vault/errors"

// Orm reserves 100~109 error codes

// ErrIteratorDone is returned when an iterator has no more elements.
var ErrIteratorDone = errors.Register(100, "iterator done")
