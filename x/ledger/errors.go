package ledger

import "github.com/iov-one/vault/errors"

// ErrQuorum is returned when a transaction is executed without enough
// approvals.
var ErrQuorum = errors.Register(1100, "insufficient approvals")
