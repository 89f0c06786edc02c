package main

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/require"
)

// testEnv is a home directory with two owner keys and a genesis file
// listing them with a quorum of two.
type testEnv struct {
	home    string
	keys    [2]string
	genesis string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir, err := ioutil.TempDir("", "vaultcli")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	env := &testEnv{home: filepath.Join(dir, "home")}
	var conds []string
	for i := range env.keys {
		env.keys[i] = filepath.Join(dir, fmt.Sprintf("owner%d.key", i))
		run(t, cmdKeygen, "-key", env.keys[i])
		lines := strings.Split(strings.TrimSpace(run(t, cmdKeyaddr, "-key", env.keys[i])), "\n")
		require.Len(t, lines, 2)
		conds = append(conds, fmt.Sprintf("%q", lines[1]))
	}

	env.genesis = filepath.Join(dir, "genesis.json")
	genesis := fmt.Sprintf(`{"app_state": {"conf": {
		"owners": {"owners": [%s], "quorum": 2},
		"fund": {"metadata": {"schema": 1}, "ticker": "IOV"},
		"ledger": {"metadata": {"schema": 1}, "max_data_length": 32}
	}}}`, strings.Join(conds, ","))
	require.NoError(t, ioutil.WriteFile(env.genesis, []byte(genesis), 0600))
	return env
}

func (e *testEnv) node(args ...string) []string {
	return append([]string{"-home", e.home, "-log", "none"}, args...)
}

func (e *testEnv) signed(owner int, args ...string) []string {
	return e.node(append([]string{"-key", e.keys[owner]}, args...)...)
}

type command func(input io.Reader, output io.Writer, args []string) error

func run(t *testing.T, cmd command, args ...string) string {
	t.Helper()

	out, err := runErr(cmd, args...)
	require.NoError(t, err)
	return out
}

func runErr(cmd command, args ...string) (string, error) {
	var output bytes.Buffer
	err := cmd(nil, &output, args)
	return output.String(), err
}

func TestVaultLifecycle(t *testing.T) {
	env := newTestEnv(t)
	recipient := vaulttest.SequenceCondition(3).Address()

	run(t, cmdInit, env.node("-genesis", env.genesis)...)
	_, err := runErr(cmdInit, env.node("-genesis", env.genesis)...)
	require.Error(t, err)

	run(t, cmdDeposit, env.signed(0, "-amount", "10 IOV")...)
	require.Equal(t, "10 IOV\n", run(t, cmdBalance, env.node()...))

	id := run(t, cmdSubmit, env.signed(1, "-recipient", recipient.String(), "-amount", "4 IOV", "-data", "rent")...)
	require.Equal(t, "0\n", id)

	run(t, cmdApprove, env.signed(0, "-id", "0")...)
	_, err = runErr(cmdExecute, env.signed(0, "-id", "0")...)
	require.Error(t, err)
	run(t, cmdApprove, env.signed(1, "-id", "0")...)
	run(t, cmdRevoke, env.signed(1, "-id", "0")...)
	run(t, cmdApprove, env.signed(1, "-id", "0")...)
	require.Equal(t, "transaction 0 executed\n", run(t, cmdExecute, env.signed(1, "-id", "0")...))

	require.Equal(t, "6 IOV\n", run(t, cmdBalance, env.node()...))
	require.Equal(t, "4 IOV\n", run(t, cmdBalance, env.node("-address", recipient.String())...))

	shown := run(t, cmdShow, env.node("-id", "0")...)
	require.Contains(t, shown, `"executed": true`)
	owners := run(t, cmdShow, env.node()...)
	require.Contains(t, owners, `"quorum": 2`)

	listed := run(t, cmdList, env.node()...)
	require.Equal(t, fmt.Sprintf("0\t%s\t4 IOV\t2 approvals\texecuted\n", recipient), listed)
}

func TestNonOwnerIsRejected(t *testing.T) {
	env := newTestEnv(t)
	run(t, cmdInit, env.node("-genesis", env.genesis)...)

	stranger := filepath.Join(filepath.Dir(env.genesis), "stranger.key")
	run(t, cmdKeygen, "-key", stranger)

	args := env.node("-key", stranger, "-recipient", vaulttest.SequenceCondition(1).Address().String(), "-amount", "1 IOV")
	_, err := runErr(cmdSubmit, args...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not an owner")
	require.Equal(t, "", run(t, cmdList, env.node()...))
}

func TestKeygenDoesNotOverwrite(t *testing.T) {
	env := newTestEnv(t)
	_, err := runErr(cmdKeygen, "-key", env.keys[0])
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out := run(t, cmdVersion)
	require.True(t, strings.HasPrefix(out, "v"), out)
}
