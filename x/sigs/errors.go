package sigs

import "github.com/iov-one/vault/errors"

// ErrInvalidSequence is returned when a signature carries a sequence that
// is not the next expected one.
var ErrInvalidSequence = errors.Register(1200, "invalid sequence number")
