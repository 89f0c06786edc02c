/*
Package ledger implements the quorum gated transaction ledger.

Any owner can submit a transaction that transfers value out of the vault.
Owners approve or revoke their approval of a transaction until it is
executed. Once the number of approvals reaches the quorum configured in the
owner registry, any owner can execute the transaction. Executed
transactions are frozen.

Every successful operation is announced to an Emitter. A SwitchEmitter
forwards events to a tendermint event switch where the Journal, metrics
and event sink subscribe.
*/
package ledger
