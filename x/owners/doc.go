/*
Package owners implements the registry of identities that jointly control
the vault.

The registry is a fixed set of distinct owner addresses together with the
quorum: the number of owner approvals a transaction needs before it can be
executed. It is created once from the genesis file and never changes.
*/
package owners
