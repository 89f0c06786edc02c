/*
Package errors implements the error handling used across the vault module.

Every failure is categorized by wrapping one of the root errors declared in
this package (or registered by an extension with Register). A root error
carries a unique code that is safe to expose to a client, while the wrapping
layers add a human readable context:

	return errors.Wrap(errors.ErrNotFound, "transaction does not exist")

Use ErrXyz.Is(err) to test the category of an error. Is unwraps all layers,
including the components of a multi error created with Append.

A stack trace is attached at the innermost Wrap call. Print an error with
%+v to see it.
*/
package errors
