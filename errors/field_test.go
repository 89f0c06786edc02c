package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Declare errors upfront so that DeepEqual can be used for comparison.
	var (
		unauthorizedNameErr = Field("Name", ErrUnauthorized, "a")
		humanNameErr        = Field("Name", ErrHuman, "b")
		emptyRecipientErr   = Field("Recipient", ErrEmpty, "recipient is required")
		msgMultiErr         = Field("Msg", Append(
			humanNameErr,
			Append(emptyRecipientErr, ErrDuplicate),
		), "msg data invalid")
	)

	cases := map[string]struct {
		Err   error
		Field string
		Want  []error
	}{
		"a single error found by the name": {
			Err:   unauthorizedNameErr,
			Field: "Name",
			Want:  []error{unauthorizedNameErr},
		},
		"two error found by the name": {
			Err:   Append(unauthorizedNameErr, humanNameErr),
			Field: "Name",
			Want:  []error{unauthorizedNameErr, humanNameErr},
		},
		"field can contain a multierror": {
			Err:   msgMultiErr,
			Field: "Msg",
			Want:  []error{msgMultiErr},
		},
		"field can inspect errors tree to find match": {
			Err:   msgMultiErr,
			Field: "Recipient",
			Want:  []error{emptyRecipientErr},
		},
		"nil error returns nothing": {
			Err:   nil,
			Field: "foo",
			Want:  nil,
		},
		"error not found by the field name": {
			Err:   ErrUnauthorized,
			Field: "foo",
			Want:  nil,
		},
		"field is wrapped": {
			Err:   Wrap(Wrap(humanNameErr, "inner"), "outer"),
			Field: "Name",
			Want:  []error{humanNameErr},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.Err, tc.Field)
			if !reflect.DeepEqual(tc.Want, got) {
				t.Fatalf("want %v, got %v", tc.Want, got)
			}
		})
	}
}

func TestFieldNilIsNil(t *testing.T) {
	if err := Field("Amount", nil, "ignored"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := AppendField(nil, "Amount", nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}
