/*
Package fund holds the value controlled by the vault.

Every address owns a wallet with a balance of the single currency configured
for the fund. Anyone can deposit into the vault wallet. Value leaves the
vault only through Account.Transfer, which the ledger calls when an approved
transaction is executed.
*/
package fund
