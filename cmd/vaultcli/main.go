package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/vault"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It is the responsibility
// of the command function to parse the arguments using the flag package.
// A command function is expected to read and write only to provided input
// and output. Logs are written to os.Stderr.
//
// Every command that changes the state opens the store kept in the home
// directory, delivers a single transaction signed with the private key and
// commits. For example, funding the vault and paying out of it:
//
//	$ vaultcli deposit -amount "10 IOV"
//	$ vaultcli submit -recipient 1A2B... -amount "3 IOV"
//	$ vaultcli approve -id 1
//	$ vaultcli execute -id 1
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"approve": cmdApprove,
	"balance": cmdBalance,
	"deposit": cmdDeposit,
	"execute": cmdExecute,
	"init":    cmdInit,
	"keyaddr": cmdKeyaddr,
	"keygen":  cmdKeygen,
	"list":    cmdList,
	"revoke":  cmdRevoke,
	"serve":   cmdServe,
	"show":    cmdShow,
	"submit":  cmdSubmit,
	"version": cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client of a multi owner vault.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, vault.Version())
	return err
}
