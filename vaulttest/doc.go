/*
Package vaulttest provides test doubles and helpers shared by the vault
test suites: authenticators, keys, transactions and handlers.
*/
package vaulttest
