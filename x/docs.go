/*
Package x contains the building blocks shared by the vault extensions.

Sub-packages implement the owner registry, the transaction ledger and the
fund. This package only defines how handlers learn who is calling them: an
Authenticator reveals the conditions that are fulfilled for a context.
Handlers never verify signatures themselves.
*/
package x
