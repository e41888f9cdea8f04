package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/llvar-ledger/internal/decoder"
	"github.com/sheikh-saqib/llvar-ledger/internal/models"
	"github.com/sheikh-saqib/llvar-ledger/internal/processor"
)

func TestReadRecords(t *testing.T) {
	in := strings.NewReader("10101088888888880000010000\r\n\n   \r\n  INVALID_MESSAGE  \n1020\n")
	got, err := readRecords(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"10101088888888880000010000", "  INVALID_MESSAGE  ", "1020"}, got)
}

func TestReadRecordsKeepsTrailingSpaces(t *testing.T) {
	records, err := readRecords(strings.NewReader("10100312300000001000  \n10100312300000001000\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"10100312300000001000  ", "10100312300000001000"}, records)

	resp := processor.NewService().Process(context.Background(), models.ProcessTransactionsRequest{Transactions: records})
	require.Len(t, resp.Results, 2)
	assert.Equal(t, models.RecordMalformed, resp.Results[0].Status)
	assert.Contains(t, resp.Results[0].Reason, "invalid amount")
	assert.Equal(t, models.RecordApplied, resp.Results[1].Status)
	require.Len(t, resp.BankAccounts, 1)
	assert.Equal(t, int64(1000), resp.BankAccounts[0].BalanceCents)
}

func TestWriteAccounts(t *testing.T) {
	var buf bytes.Buffer
	writeAccounts(&buf, []models.AccountSnapshot{
		{AccountNumber: "1234567", BalanceCents: 18000},
		{AccountNumber: "444777", BalanceCents: 10005},
	})

	out := buf.String()
	assert.Contains(t, out, "ACCOUNT")
	assert.Contains(t, out, "$180.00")
	assert.Contains(t, out, "$100.05")
	assert.Less(t, strings.Index(out, "1234567"), strings.Index(out, "444777"))
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	writeResults(&buf, []models.RecordResult{
		{Index: 0, Record: "INVALID_MESSAGE", Status: models.RecordMalformed, Reason: "unknown operation code"},
	})
	assert.Contains(t, buf.String(), "malformed")
	assert.Contains(t, buf.String(), "INVALID_MESSAGE")
}

func TestDecodeAll(t *testing.T) {
	var buf bytes.Buffer
	ok := decodeAll(&buf, []string{"10101088888888880000010000"})
	assert.True(t, ok)
	assert.Contains(t, buf.String(), `"kind":"deposit"`)
	assert.Contains(t, buf.String(), `"account_id":"8888888888"`)

	buf.Reset()
	ok = decodeAll(&buf, []string{"10101088888888880000010000", "INVALID_MESSAGE"})
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "INVALID_MESSAGE\terror: unknown operation code")
}

func TestEncodeOperation(t *testing.T) {
	cases := []struct {
		name string
		cmd  encodeCmd
		want string
	}{
		{"deposit", encodeCmd{kind: "deposit", account: "8888888888", amount: 10000}, "10101088888888880000010000"},
		{"withdrawal", encodeCmd{kind: "withdrawal", account: "1234567", amount: 20000}, "10200712345670000020000"},
		{"transfer", encodeCmd{kind: "transfer", from: "1234567", to: "444777", amount: 1500}, "2010071234567064447770000001500"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op, err := tc.cmd.operation()
			require.NoError(t, err)
			rec, err := decoder.Encode(op)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec)

			back, err := decoder.Decode(rec)
			require.NoError(t, err)
			assert.Equal(t, op, back)
		})
	}
}

func TestEncodeOperationRejects(t *testing.T) {
	cases := []struct {
		name string
		cmd  encodeCmd
	}{
		{"unknown kind", encodeCmd{kind: "refund", account: "1", amount: 1}},
		{"missing kind", encodeCmd{account: "1", amount: 1}},
		{"deposit without account", encodeCmd{kind: "deposit", amount: 1}},
		{"transfer without destination", encodeCmd{kind: "transfer", from: "1", amount: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cmd.operation()
			assert.Error(t, err)
		})
	}
}

func TestWriteOperationMarshalError(t *testing.T) {
	var buf bytes.Buffer
	ok := writeOperation(&buf, "rec", models.Operation{Kind: models.OperationKind(42), AccountID: "1"})
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "rec\terror: ")
	assert.Contains(t, buf.String(), "unknown operation kind")
}
