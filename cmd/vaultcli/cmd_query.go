package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault/x/owners"
)

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print a transaction as JSON. Without -id the owner registry is printed.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl = registerNodeFlags(fl)
		idFl   = fl.Uint64("id", 0, "ID of the transaction.")
	)
	fl.Parse(args)

	n, err := openNode(nodeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	if *idFl == 0 {
		reg, err := owners.Load(n.ReadStore())
		if err != nil {
			return err
		}
		return printJSON(output, reg)
	}
	tx, err := n.Ledger.Transaction(n.ReadStore(), *idFl)
	if err != nil {
		return err
	}
	return printJSON(output, tx)
}

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List transactions in ID order as JSON.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl   = registerNodeFlags(fl)
		offsetFl = fl.Uint64("offset", 0, "ID of the first listed transaction.")
		limitFl  = fl.Int("limit", 0, "Maximum number of listed transactions. All are listed if 0.")
	)
	fl.Parse(args)

	n, err := openNode(nodeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	txs, err := n.Ledger.Transactions(n.ReadStore(), *offsetFl, *limitFl)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		status := "pending"
		if tx.Executed {
			status = "executed"
		}
		if _, err := fmt.Fprintf(output, "%d\t%s\t%s\t%d approvals\t%s\n",
			tx.ID, tx.Recipient, tx.Amount, tx.ApprovalCount(), status); err != nil {
			return err
		}
	}
	return nil
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the value held by the vault. With -address the balance of given
address is printed instead.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl    = registerNodeFlags(fl)
		addressFl = flAddress(fl, "address", "Address to print the balance of.")
	)
	fl.Parse(args)

	n, err := openNode(nodeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	db := n.ReadStore()
	b, err := n.Ledger.Balance(db)
	if len(*addressFl) != 0 {
		b, err = n.Funds.Balance(db, *addressFl)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, b)
	return err
}
