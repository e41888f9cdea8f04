package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"

	"github.com/sheikh-saqib/llvar-ledger/internal/config"
	"github.com/sheikh-saqib/llvar-ledger/internal/logging"
	"github.com/sheikh-saqib/llvar-ledger/internal/models"
	"github.com/sheikh-saqib/llvar-ledger/internal/processor"
)

type processCmd struct {
	file    string
	asJSON  bool
	results bool
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "applies a file of records and prints the final accounts" }
func (*processCmd) Usage() string {
	return `process [-file records.txt] [-json] [-results]:
  reads one record per line (stdin by default), applies them in order and
  prints every account with a non-zero balance.
`
}

func (p *processCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.file, "file", "", "Path to the records file (default stdin)")
	f.BoolVar(&p.asJSON, "json", false, "Print the full response as JSON")
	f.BoolVar(&p.results, "results", false, "Also print the outcome of every record")
}

func (p *processCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	logger, err := logging.NewConsole(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer logger.Sync()

	in := io.Reader(os.Stdin)
	if p.file != "" {
		f, err := os.Open(p.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening records file %q: %v\n", p.file, err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		in = f
	}

	records, err := readRecords(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading records: %v\n", err)
		return subcommands.ExitFailure
	}

	svc := processor.NewService(processor.WithLimits(cfg.Limits), processor.WithLogger(logger))
	resp := svc.Process(ctx, models.ProcessTransactionsRequest{Transactions: records})

	if p.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding response: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if p.results {
		writeResults(os.Stdout, resp.Results)
		fmt.Println()
	}
	writeAccounts(os.Stdout, resp.BankAccounts)
	return subcommands.ExitSuccess
}

// readRecords returns each non-blank line in order. Only a CRLF line ending
// is stripped; the decoder sees every other byte of the record.
func readRecords(r io.Reader) ([]string, error) {
	var records []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, line)
	}
	return records, sc.Err()
}

func writeAccounts(w io.Writer, accounts []models.AccountSnapshot) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ACCOUNT\tBALANCE\tCENTS\t")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%d\t\n", a.AccountNumber, money.New(a.BalanceCents, money.USD).Display(), a.BalanceCents)
	}
	tw.Flush()
}

func writeResults(w io.Writer, results []models.RecordResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTATUS\tRECORD\tREASON")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Index, r.Status, r.Record, r.Reason)
	}
	tw.Flush()
}
