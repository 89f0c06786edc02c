package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x/fund"
	"github.com/iov-one/vault/x/ledger"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the vault state from a genesis file. The owner registry and the
configuration cannot be changed once initialized.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl    = registerNodeFlags(fl)
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	n, err := openNode(nodeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	id, err := n.InitChain(gen.AppState)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "initialized at version %d: %X\n", id.Version, id.Hash)
	return err
}

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Deposit value into the vault. The key holder is the depositor.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl   = registerNodeFlags(fl)
		keyFl    = registerKeyFlag(fl)
		amountFl = flCoin(fl, "amount", "", "Deposited value, for example \"10 IOV\".")
	)
	fl.Parse(args)

	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}
	msg := &fund.DepositMsg{
		Metadata:  &vault.Metadata{Schema: 1},
		Depositor: key.PublicKey().Address(),
		Amount:    amountFl,
	}
	return deliverMsg(nodeFl, key, msg, output)
}

func cmdSubmit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Submit a new transaction paying out of the vault. The ID of the created
transaction is printed. Submitting does not approve the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl      = registerNodeFlags(fl)
		keyFl       = registerKeyFlag(fl)
		recipientFl = flAddress(fl, "recipient", "Address the amount is paid to.")
		amountFl    = flCoin(fl, "amount", "", "Paid value, for example \"3.5 IOV\".")
		dataFl      = fl.String("data", "", "Optional payload attached to the transaction.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}
	msg := &ledger.SubmitMsg{
		Metadata:  &vault.Metadata{Schema: 1},
		Recipient: *recipientFl,
		Amount:    amountFl,
	}
	if *dataFl != "" {
		msg.Data = []byte(*dataFl)
	}

	n, err := openNode(nodeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	res, err := n.deliver(key, msg)
	if err != nil {
		return err
	}
	id, err := orm.DecodeSequence(res.Data)
	if err != nil {
		return fmt.Errorf("cannot decode transaction id: %s", err)
	}
	_, err = fmt.Fprintln(output, id)
	return err
}

func cmdApprove(input io.Reader, output io.Writer, args []string) error {
	return cmdTransactionMsg(output, args, `
Approve a pending transaction as the key holder.
`, func(id uint64) vault.Msg {
		return &ledger.ApproveMsg{Metadata: &vault.Metadata{Schema: 1}, TransactionID: id}
	})
}

func cmdRevoke(input io.Reader, output io.Writer, args []string) error {
	return cmdTransactionMsg(output, args, `
Revoke an approval previously given by the key holder.
`, func(id uint64) vault.Msg {
		return &ledger.RevokeMsg{Metadata: &vault.Metadata{Schema: 1}, TransactionID: id}
	})
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	return cmdTransactionMsg(output, args, `
Execute a transaction that reached the quorum of approvals. The transaction
is marked executed even if the transfer fails.
`, func(id uint64) vault.Msg {
		return &ledger.ExecuteMsg{Metadata: &vault.Metadata{Schema: 1}, TransactionID: id}
	})
}

// cmdTransactionMsg implements commands that act on a single transaction
// by its ID.
func cmdTransactionMsg(output io.Writer, args []string, usage string, build func(id uint64) vault.Msg) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		fl.PrintDefaults()
	}
	var (
		nodeFl = registerNodeFlags(fl)
		keyFl  = registerKeyFlag(fl)
		idFl   = fl.Uint64("id", 0, "ID of the transaction.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}
	return deliverMsg(nodeFl, key, build(*idFl), output)
}

// deliverMsg delivers msg signed by key and prints the result log.
func deliverMsg(nodeFl nodeFlags, key *crypto.PrivateKey, msg vault.Msg, output io.Writer) error {
	n, err := openNode(nodeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	res, err := n.deliver(key, msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, res.Log)
	return err
}
