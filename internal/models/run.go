package models

import "time"

// RecordStatus is the outcome of one input record.
type RecordStatus string

const (
	RecordApplied   RecordStatus = "applied"
	RecordRejected  RecordStatus = "rejected"
	RecordMalformed RecordStatus = "malformed"
)

// RecordResult describes what happened to the record at Index.
type RecordResult struct {
	Index     int          `json:"index"`
	Record    string       `json:"record"`
	Status    RecordStatus `json:"status"`
	Reason    string       `json:"reason,omitempty"`
	Operation *Operation   `json:"operation,omitempty"`
}

type RunStats struct {
	Records   int `json:"records"`
	Decoded   int `json:"decoded"`
	Malformed int `json:"malformed"`
	Applied   int `json:"applied"`
	Rejected  int `json:"rejected"`
}

// Run is the persisted summary of one processing run.
type Run struct {
	ID          string            `json:"run_id"`
	Digest      string            `json:"digest"`
	Accounts    []AccountSnapshot `json:"bank_accounts"`
	Stats       RunStats          `json:"stats"`
	CompletedAt time.Time         `json:"completed_at"`
}

// ProcessTransactionsRequest carries raw records in the order they must be applied.
type ProcessTransactionsRequest struct {
	Transactions []string `json:"transactions"`
}

type ProcessTransactionsResponse struct {
	RunID        string            `json:"run_id"`
	BankAccounts []AccountSnapshot `json:"bank_accounts"`
	Results      []RecordResult    `json:"results"`
	Stats        RunStats          `json:"stats"`
	Digest       string            `json:"digest"`
}
