package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordProcessed struct {
	RunID       string          `json:"run_id"`
	Index       int             `json:"index"`
	Status      string          `json:"status"`
	Kind        string          `json:"kind,omitempty"`
	FromAccount string          `json:"from_account,omitempty"`
	ToAccount   string          `json:"to_account,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type RunCompleted struct {
	RunID       string    `json:"run_id"`
	Digest      string    `json:"digest"`
	Records     int       `json:"records"`
	Applied     int       `json:"applied"`
	Rejected    int       `json:"rejected"`
	Malformed   int       `json:"malformed"`
	Accounts    int       `json:"accounts"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e RecordProcessed) EventKey() string { return e.RunID }

func (e RunCompleted) EventKey() string { return e.RunID }
