/*
Package app glues the extensions into a runnable vault.

Serialized transactions are decoded by a TxDecoder, dispatched by the
Router to the extension handler registered for the message path and
executed against a committed store. The Stack function assembles the
whole vault from a store.
*/
package app
