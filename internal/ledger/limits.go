package ledger

// Limits holds the business caps, all in cents.
type Limits struct {
	MaxDepositCents    int64
	MaxWithdrawalCents int64
	MaxTransferCents   int64
	// MaxTotalOutCents caps withdrawals plus outgoing transfers over the
	// account's lifetime.
	MaxTotalOutCents int64
}

const (
	DefaultMaxDepositCents    = 100000
	DefaultMaxWithdrawalCents = 20000
	DefaultMaxTransferCents   = 20000
	DefaultMaxTotalOutCents   = 50000
)

func DefaultLimits() Limits {
	return Limits{
		MaxDepositCents:    DefaultMaxDepositCents,
		MaxWithdrawalCents: DefaultMaxWithdrawalCents,
		MaxTransferCents:   DefaultMaxTransferCents,
		MaxTotalOutCents:   DefaultMaxTotalOutCents,
	}
}
