package orm

import (
	"reflect"
	"regexp"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	vault.Persistent
	Validate() error
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type under a common key prefix.
type ModelBucket struct {
	prefix []byte
	model  reflect.Type
}

// NewModelBucket returns a ModelBucket instance for models of the same type
// as given example. Name must be lower case, 3 to 10 characters long.
func NewModelBucket(name string, example Model) ModelBucket {
	if !isBucketName(name) {
		panic("illegal bucket name: " + name)
	}
	return ModelBucket{
		prefix: []byte(name + ":"),
		model:  reflect.TypeOf(example),
	}
}

// DBKey is the full key used to store given model key in the database.
func (mb ModelBucket) DBKey(key []byte) []byte {
	return append(append([]byte(nil), mb.prefix...), key...)
}

// One query the database for a single model instance. Lookup is done by the
// primary key. Result is loaded into given destination model.
//
// This method returns ErrNotFound if the entity does not exist in the
// database. If given model type cannot be used to contain stored entity,
// ErrType is returned.
func (mb ModelBucket) One(db vault.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.assertType(dest); err != nil {
		return err
	}
	raw, err := db.Get(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// Has returns true if an entity with given key exists.
func (mb ModelBucket) Has(db vault.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(mb.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Put saves given model in the database. The model is validated first.
func (mb ModelBucket) Put(db vault.KVStore, key []byte, m Model) error {
	if err := mb.assertType(m); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(mb.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes an entity with given primary key from the database. It
// returns ErrNotFound if an entity with given key does not exist.
func (mb ModelBucket) Delete(db vault.KVStore, key []byte) error {
	ok, err := mb.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "key %X", key)
	}
	if err := db.Delete(mb.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Range returns an iterator over all models with a key within given range.
// Start is inclusive, end is exclusive, nil means no bound.
func (mb ModelBucket) Range(db vault.ReadOnlyKVStore, start, end []byte) (*ModelIterator, error) {
	from := mb.DBKey(start)
	var to []byte
	if end != nil {
		to = mb.DBKey(end)
	} else {
		to = prefixEnd(mb.prefix)
	}
	it, err := db.Iterator(from, to)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &ModelIterator{it: it, prefix: mb.prefix, model: mb.model}, nil
}

func (mb ModelBucket) assertType(m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "want %s, got %T", mb.model, m)
	}
	return nil
}

// prefixEnd returns the smallest key that is greater than all keys with
// given prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
