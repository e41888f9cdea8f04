package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/sheikh-saqib/llvar-ledger/internal/decoder"
	"github.com/sheikh-saqib/llvar-ledger/internal/models"
)

type encodeCmd struct {
	kind    string
	account string
	from    string
	to      string
	amount  int64
}

func (*encodeCmd) Name() string     { return "encode" }
func (*encodeCmd) Synopsis() string { return "prints the record for one operation" }
func (*encodeCmd) Usage() string {
	return `encode -kind deposit|withdrawal -account ID -amount CENTS
encode -kind transfer -from ID -to ID -amount CENTS:
  prints the record an upstream producer would send for the operation.
`
}

func (c *encodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Operation kind: deposit, withdrawal or transfer")
	f.StringVar(&c.account, "account", "", "Account id (deposit, withdrawal)")
	f.StringVar(&c.from, "from", "", "Source account id (transfer)")
	f.StringVar(&c.to, "to", "", "Destination account id (transfer)")
	f.Int64Var(&c.amount, "amount", 0, "Amount in cents")
}

func (c *encodeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	op, err := c.operation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		f.Usage()
		return subcommands.ExitUsageError
	}

	record, err := decoder.Encode(op)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding operation: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(record)
	return subcommands.ExitSuccess
}

// operation builds the Operation the flags describe.
func (c *encodeCmd) operation() (models.Operation, error) {
	var kind models.OperationKind
	if err := kind.UnmarshalText([]byte(c.kind)); err != nil {
		return models.Operation{}, err
	}

	op := models.Operation{Kind: kind, AmountCents: c.amount}
	if kind == models.Transfer {
		if c.from == "" || c.to == "" {
			return models.Operation{}, errors.New("transfer needs -from and -to")
		}
		op.SourceAccountID = c.from
		op.DestinationAccountID = c.to
		return op, nil
	}
	if c.account == "" {
		return models.Operation{}, fmt.Errorf("%s needs -account", kind)
	}
	op.AccountID = c.account
	return op, nil
}
