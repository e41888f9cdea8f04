package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/sheikh-saqib/llvar-ledger/internal/decoder"
	"github.com/sheikh-saqib/llvar-ledger/internal/models"
)

type decodeCmd struct{}

func (*decodeCmd) Name() string     { return "decode" }
func (*decodeCmd) Synopsis() string { return "decodes records without applying them" }
func (*decodeCmd) Usage() string {
	return `decode <record>...:
  prints the decoded operation of each record as JSON, or why it failed.
`
}

func (*decodeCmd) SetFlags(*flag.FlagSet) {}

func (*decodeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if !decodeAll(os.Stdout, f.Args()) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// decodeAll writes one line per record and reports whether all decoded.
func decodeAll(w io.Writer, records []string) bool {
	ok := true
	for _, rec := range records {
		op, err := decoder.Decode(rec)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", rec, err)
			ok = false
			continue
		}
		if !writeOperation(w, rec, op) {
			ok = false
		}
	}
	return ok
}

func writeOperation(w io.Writer, rec string, op models.Operation) bool {
	b, err := json.Marshal(op)
	if err != nil {
		fmt.Fprintf(w, "%s\terror: %v\n", rec, err)
		return false
	}
	fmt.Fprintf(w, "%s\t%s\n", rec, b)
	return true
}
