package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OperationKind identifies what an Operation does to the ledger.
type OperationKind int

const (
	Deposit OperationKind = iota + 1
	Withdrawal
	Transfer
)

// Wire codes for each operation kind.
const (
	DepositCode    = "1010"
	WithdrawalCode = "1020"
	TransferCode   = "2010"
)

func (k OperationKind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Transfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Code returns the 4-character wire code, or "" for an unknown kind.
func (k OperationKind) Code() string {
	switch k {
	case Deposit:
		return DepositCode
	case Withdrawal:
		return WithdrawalCode
	case Transfer:
		return TransferCode
	default:
		return ""
	}
}

// KindFromCode maps a wire code to its OperationKind.
func KindFromCode(code string) (OperationKind, bool) {
	switch code {
	case DepositCode:
		return Deposit, true
	case WithdrawalCode:
		return Withdrawal, true
	case TransferCode:
		return Transfer, true
	default:
		return 0, false
	}
}

// Operation is a decoded record. Deposits and withdrawals use AccountID;
// transfers use SourceAccountID and DestinationAccountID.
type Operation struct {
	Kind                 OperationKind `json:"kind"`
	AmountCents          int64         `json:"amount_cents"`
	AccountID            string        `json:"account_id,omitempty"`
	SourceAccountID      string        `json:"source_account_id,omitempty"`
	DestinationAccountID string        `json:"destination_account_id,omitempty"`
}

func (o Operation) AmountDollars() decimal.Decimal {
	return decimal.New(o.AmountCents, -2)
}

// MarshalText lets OperationKind render as its name in JSON.
func (k OperationKind) MarshalText() ([]byte, error) {
	if k.Code() == "" {
		return nil, fmt.Errorf("unknown operation kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *OperationKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "deposit":
		*k = Deposit
	case "withdrawal":
		*k = Withdrawal
	case "transfer":
		*k = Transfer
	default:
		return fmt.Errorf("unknown operation kind %q", b)
	}
	return nil
}
