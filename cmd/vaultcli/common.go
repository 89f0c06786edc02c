package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/eventsink"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// storeName is the name of the database kept in the home directory.
const storeName = "vault"

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// nodeFlags are shared by all commands that open the store.
type nodeFlags struct {
	home     *string
	logLevel *string
	brokers  *string
	topic    *string
}

func registerNodeFlags(fl *flag.FlagSet) nodeFlags {
	return nodeFlags{
		home: fl.String("home", env("VAULTCLI_HOME", filepath.Join(os.Getenv("HOME"), ".vault")),
			"Directory the vault state is kept in. You can use VAULTCLI_HOME environment variable to set it."),
		logLevel: fl.String("log", env("VAULTCLI_LOG", "error"),
			"Log level, one of debug, info, error or none."),
		brokers: fl.String("kafka-brokers", env("VAULTCLI_KAFKA_BROKERS", ""),
			"Comma separated list of Kafka brokers ledger events are published to. Events are not published if empty."),
		topic: fl.String("kafka-topic", env("VAULTCLI_KAFKA_TOPIC", "vault-events"),
			"Kafka topic ledger events are published to."),
	}
}

func registerKeyFlag(fl *flag.FlagSet) *string {
	return fl.String("key", env("VAULTCLI_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".vault.priv.key")),
		"Path to the private key file that transaction should be signed with. You can use VAULTCLI_PRIV_KEY environment variable to set it.")
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}

// node is a vault opened from the home directory.
type node struct {
	*app.Vault
	store  *iavl.CommitStore
	sink   *eventsink.Sink
	logger log.Logger
}

func openNode(fl nodeFlags) (*node, error) {
	logger, err := newLogger(*fl.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	if err := os.MkdirAll(*fl.home, 0700); err != nil {
		return nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	store, err := iavl.NewCommitStore(*fl.home, storeName)
	if err != nil {
		return nil, fmt.Errorf("cannot open store: %s", err)
	}
	v, err := app.Stack(store, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("cannot build vault: %s", err)
	}
	n := &node{Vault: v, store: store, logger: logger}

	if *fl.brokers != "" {
		sink, err := eventsink.New(eventsink.Config{
			Brokers: strings.Split(*fl.brokers, ","),
			Topic:   *fl.topic,
		}, logger)
		if err != nil {
			n.Close()
			return nil, fmt.Errorf("cannot create event sink: %s", err)
		}
		if err := sink.Listen(v.Events); err != nil {
			n.Close()
			return nil, fmt.Errorf("cannot subscribe event sink: %s", err)
		}
		if err := sink.Start(context.Background()); err != nil {
			n.Close()
			return nil, fmt.Errorf("cannot start event sink: %s", err)
		}
		n.sink = sink
	}
	return n, nil
}

// Close flushes published events and releases the store.
func (n *node) Close() {
	if n.sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := n.sink.Stop(ctx); err != nil {
			n.logger.Error("cannot flush events", "err", err)
		}
		cancel()
	}
	n.Vault.Close()
	n.store.Close()
}

// deliver signs the message with the key, executes it and commits the
// result. A failed message is committed as well, the handlers persist only
// what must survive a failure.
func (n *node) deliver(key *crypto.PrivateKey, msg vault.Msg) (*vault.DeliverResult, error) {
	seq, err := sigs.NextSequence(n.ReadStore(), key.PublicKey().Address())
	if err != nil {
		return nil, fmt.Errorf("cannot get signer sequence: %s", err)
	}
	tx := app.NewTx(msg)
	if err := tx.Sign(key, seq); err != nil {
		return nil, fmt.Errorf("cannot sign transaction: %s", err)
	}
	raw, err := tx.Marshal()
	if err != nil {
		return nil, fmt.Errorf("cannot serialize transaction: %s", err)
	}
	ctx := context.Background()
	if _, err := n.CheckTx(ctx, raw); err != nil {
		return nil, err
	}
	res, err := n.DeliverTx(ctx, raw)
	if _, cerr := n.Commit(); cerr != nil {
		return nil, fmt.Errorf("cannot commit: %s", cerr)
	}
	return res, err
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	return crypto.ParsePrivateKey(raw)
}

// flAddress returns a value that is optionally overwritten by a command
// line argument if provided. This function follows Go's flag package
// convention.
func flAddress(fl *flag.FlagSet, name, usage string) *vault.Address {
	var a vault.Address
	fl.Var(&a, name, usage)
	return &a
}

// flCoin returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized, process is terminated.
func flCoin(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Coin {
	var c coin.Coin
	if defaultVal != "" {
		var err error
		c, err = coin.ParseHumanFormat(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q coin.Coin flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&c, name, usage)
	return &c
}

func printJSON(out io.Writer, content interface{}) error {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
