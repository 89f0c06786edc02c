package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

// limits is a configuration used in tests. JSON is used as the binary
// format to keep it independent from the protobuf messages.
type limits struct {
	Max int `json:"max"`
}

func (l *limits) Marshal() ([]byte, error)   { return json.Marshal(l) }
func (l *limits) Unmarshal(raw []byte) error { return json.Unmarshal(raw, l) }
func (l *limits) Validate() error {
	if l.Max <= 0 {
		return errors.Wrap(errors.ErrConfiguration, "max must be positive")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	assert.IsErr(t, errors.ErrNotFound, Load(db, "limits", &limits{}))
	assert.IsErr(t, errors.ErrConfiguration, Save(db, "limits", &limits{}))
	assert.IsErr(t, errors.ErrNotFound, Load(db, "limits", &limits{}))

	assert.Nil(t, Save(db, "limits", &limits{Max: 7}))
	var got limits
	assert.Nil(t, Load(db, "limits", &got))
	assert.Equal(t, 7, got.Max)

	raw, err := db.Get([]byte("_c:limits"))
	assert.Nil(t, err)
	if raw == nil {
		t.Fatal("configuration must be stored under the package key")
	}
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		wantMax int
	}{
		"valid": {
			genesis: `{"conf": {"limits": {"max": 3}}}`,
			wantMax: 3,
		},
		"missing package": {
			genesis: `{"conf": {"other": {"max": 3}}}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			genesis: `{"conf": {"limits": {"max": 0}}}`,
			wantErr: errors.ErrConfiguration,
		},
		"malformed": {
			genesis: `{"conf": {"limits": {"max": "three"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts vault.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := InitConfig(db, opts, "limits", &limits{})
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			var got limits
			assert.Nil(t, Load(db, "limits", &got))
			assert.Equal(t, tc.wantMax, got.Max)
		})
	}
}
