package vault

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/assert"
)

type pingMsg struct {
	invalid bool
}

func (m *pingMsg) Marshal() ([]byte, error) { return []byte("ping"), nil }
func (m *pingMsg) Unmarshal([]byte) error   { return nil }
func (m *pingMsg) Path() string             { return "test/ping" }
func (m *pingMsg) Validate() error {
	if m.invalid {
		return errors.Wrap(errors.ErrMsg, "invalid ping")
	}
	return nil
}

type pongMsg struct{ pingMsg }

type singleMsgTx struct {
	msg Msg
	err error
}

func (tx *singleMsgTx) GetMsg() (Msg, error)     { return tx.msg, tx.err }
func (tx *singleMsgTx) Marshal() ([]byte, error) { return nil, nil }
func (tx *singleMsgTx) Unmarshal([]byte) error   { return nil }

func TestLoadMsg(t *testing.T) {
	var ping *pingMsg
	err := LoadMsg(&singleMsgTx{msg: &pingMsg{}}, &ping)
	assert.NoError(t, err)
	assert.NotNil(t, ping)

	var pong *pongMsg
	err = LoadMsg(&singleMsgTx{msg: &pingMsg{}}, &pong)
	assert.True(t, errors.ErrType.Is(err))

	err = LoadMsg(&singleMsgTx{msg: &pingMsg{}}, ping)
	assert.True(t, errors.ErrType.Is(err))

	err = LoadMsg(&singleMsgTx{msg: &pingMsg{invalid: true}}, &ping)
	assert.True(t, errors.ErrMsg.Is(err))

	err = LoadMsg(&singleMsgTx{}, &ping)
	assert.True(t, errors.ErrMsg.Is(err))

	err = LoadMsg(&singleMsgTx{err: errors.ErrHuman}, &ping)
	assert.True(t, errors.ErrHuman.Is(err))
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "test/ping", GetPath(&singleMsgTx{msg: &pingMsg{}}))
	assert.Equal(t, "(missing)", GetPath(&singleMsgTx{}))
}

func TestReadOptions(t *testing.T) {
	opts := Options{
		"conf": []byte(`{"quorum": 3}`),
		"bad":  []byte(`{"quorum": "x"}`),
	}
	var conf struct {
		Quorum uint32 `json:"quorum"`
	}
	assert.NoError(t, opts.ReadOptions("missing", &conf))
	assert.Equal(t, uint32(0), conf.Quorum)
	assert.NoError(t, opts.ReadOptions("conf", &conf))
	assert.Equal(t, uint32(3), conf.Quorum)
	assert.True(t, errors.ErrInput.Is(opts.ReadOptions("bad", &conf)))
}

func TestMetadata(t *testing.T) {
	var nilMeta *Metadata
	assert.True(t, errors.ErrMetadata.Is(nilMeta.Validate()))
	assert.True(t, errors.ErrMetadata.Is((&Metadata{}).Validate()))
	assert.NoError(t, (&Metadata{Schema: 1}).Validate())

	m := &Metadata{Schema: 1}
	cpy := m.Copy()
	cpy.Schema = 2
	assert.Equal(t, uint32(1), m.Schema)
	assert.Nil(t, nilMeta.Copy())
}
