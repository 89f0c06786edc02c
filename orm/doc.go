/*
Package orm provides an easy to use db wrapper.

Models are persisted under a bucket name prefix in any vault.KVStore.
ModelBucket loads and stores single models by their key, ModelIterator walks
a bucket in key order and Sequence produces monotonic keys.
*/
package orm
