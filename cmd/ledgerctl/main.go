// Command ledgerctl runs record batches through the ledger from the shell.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

var logLevel = flag.String("log-level", "warn", "Log level for diagnostics on stderr")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&processCmd{}, "ledger")
	subcommands.Register(&decodeCmd{}, "ledger")
	subcommands.Register(&encodeCmd{}, "ledger")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
