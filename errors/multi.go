package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is provided, nil is returned.
// If only one non-nil error is provided, it is returned unchanged.
// Otherwise a multi error containing all of them is returned. Nested multi
// errors are flattened.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
			continue
		}
		flat = append(flat, e)
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

type unpacker interface {
	Unpack() []error
}

// multiErr is a default implementation of a multi error. It preserves the
// order of errors it was built from.
type multiErr struct {
	errs []error
}

var _ unpacker = (*multiErr)(nil)
var _ coder = (*multiErr)(nil)

func (e *multiErr) Unpack() []error {
	return e.errs
}

func (e *multiErr) Error() string {
	points := make([]string, len(e.errs))
	for i, err := range e.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(e.errs), strings.Join(points, "\n\t"))
}

// Code returns the code of the first error, consistent with a fail-fast
// approach.
func (e *multiErr) Code() uint32 {
	return errCode(e.errs[0])
}
