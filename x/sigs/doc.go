/*
Package sigs authenticates transactions by their ed25519 signatures.

Each signature carries a sequence number. A signer account stores the next
expected sequence, so a signed transaction cannot be delivered twice.
Verified signers are stored in the context and revealed by Authenticator.
*/
package sigs
