package orm

import (
	"reflect"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ModelIterator walks models of a bucket in ascending key order.
type ModelIterator struct {
	it     vault.Iterator
	prefix []byte
	model  reflect.Type
}

// LoadNext loads the current model into given destination and moves the
// iterator forward. It returns the key of the loaded model. ErrIteratorDone
// is returned once all models were consumed.
func (i *ModelIterator) LoadNext(dest Model) ([]byte, error) {
	if reflect.TypeOf(dest) != i.model {
		return nil, errors.Wrapf(errors.ErrType, "want %s, got %T", i.model, dest)
	}
	if !i.it.Valid() {
		return nil, ErrIteratorDone
	}
	key := i.it.Key()[len(i.prefix):]
	if err := dest.Unmarshal(i.it.Value()); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	i.it.Next()
	return key, nil
}

// Release releases the iterator.
func (i *ModelIterator) Release() {
	i.it.Close()
}
