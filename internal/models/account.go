package models

import "github.com/shopspring/decimal"

// Account is the state the ledger keeps for one account id.
type Account struct {
	ID            string
	BalanceCents  int64 // never negative
	TotalOutCents int64 // withdrawals plus outgoing transfers, lifetime
}

// BalanceDollars is informational only; no rule reads it.
func (a Account) BalanceDollars() decimal.Decimal {
	return decimal.New(a.BalanceCents, -2)
}

// AccountSnapshot is the wire shape of an account in a run result.
type AccountSnapshot struct {
	AccountNumber  string          `json:"account_number"`
	BalanceCents   int64           `json:"balance_cents"`
	BalanceDollars decimal.Decimal `json:"balance_dollars"`
	TotalOutCents  int64           `json:"total_out_cents"`
}

func (a Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		AccountNumber:  a.ID,
		BalanceCents:   a.BalanceCents,
		BalanceDollars: a.BalanceDollars(),
		TotalOutCents:  a.TotalOutCents,
	}
}
