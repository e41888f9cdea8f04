package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/llvar-ledger/internal/models"
)

var (
	ErrNonPositiveAmount       = errors.New("amount must be positive")
	ErrDepositLimitExceeded    = errors.New("deposit exceeds per-transaction limit")
	ErrWithdrawalLimitExceeded = errors.New("withdrawal exceeds per-transaction limit")
	ErrTransferLimitExceeded   = errors.New("transfer exceeds per-transaction limit")
	ErrTotalOutLimitExceeded   = errors.New("total outgoing limit exceeded")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrAccountNotFound         = errors.New("account not found")
	ErrSelfTransfer            = errors.New("source and destination accounts are the same")
	ErrUnknownKind             = errors.New("unknown operation kind")
)

// Ledger is the main struct representing our ledger engine.
// It owns every account it holds and is the only code that mutates them.
// A Ledger is not safe for concurrent use; one instance serves one run.
type Ledger struct {
	limits   Limits
	accounts map[string]*models.Account
	logger   *zap.Logger
}

// NewLedger is a constructor function that creates an empty Ledger.
func NewLedger(limits Limits, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		limits:   limits,
		accounts: make(map[string]*models.Account),
		logger:   logger,
	}
}

// accountPolicy says whether an operation may create the account it addresses.
type accountPolicy struct {
	mayCreate bool
}

var policies = map[models.OperationKind]accountPolicy{
	models.Deposit:    {mayCreate: true},
	models.Withdrawal: {mayCreate: false},
	models.Transfer:   {mayCreate: false},
}

// Apply routes op by kind. A nil return means the operation took effect;
// any error is a business-rule rejection and leaves the ledger unchanged.
func (l *Ledger) Apply(op models.Operation) error {
	var err error
	switch op.Kind {
	case models.Deposit:
		err = l.deposit(op)
	case models.Withdrawal:
		err = l.withdraw(op)
	case models.Transfer:
		err = l.transfer(op)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownKind, int(op.Kind))
	}

	if err != nil {
		l.logger.Warn("operation rejected", append(opFields(op), zap.NamedError("reason", err))...)
		return err
	}
	l.logger.Debug("operation applied", opFields(op)...)
	return nil
}

func (l *Ledger) deposit(op models.Operation) error {
	if op.AmountCents <= 0 {
		return ErrNonPositiveAmount
	}
	// Checked before lookup so an oversized deposit never creates an account.
	if op.AmountCents > l.limits.MaxDepositCents {
		return fmt.Errorf("%w: %d > %d", ErrDepositLimitExceeded, op.AmountCents, l.limits.MaxDepositCents)
	}

	acct, err := l.resolve(op.Kind, op.AccountID)
	if err != nil {
		return err
	}
	credit(acct, op.AmountCents)
	return nil
}

func (l *Ledger) withdraw(op models.Operation) error {
	acct, err := l.resolve(op.Kind, op.AccountID)
	if err != nil {
		return err
	}
	return l.debit(acct, op.AmountCents, l.limits.MaxWithdrawalCents, ErrWithdrawalLimitExceeded)
}

func (l *Ledger) transfer(op models.Operation) error {
	src, err := l.resolve(op.Kind, op.SourceAccountID)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := l.resolve(op.Kind, op.DestinationAccountID)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if op.SourceAccountID == op.DestinationAccountID {
		return ErrSelfTransfer
	}

	if err := l.debit(src, op.AmountCents, l.limits.MaxTransferCents, ErrTransferLimitExceeded); err != nil {
		return err
	}
	// Incoming transfers bypass the deposit cap.
	credit(dst, op.AmountCents)
	return nil
}

// resolve returns the account for id, creating it only when the kind's policy allows.
func (l *Ledger) resolve(kind models.OperationKind, id string) (*models.Account, error) {
	if acct, ok := l.accounts[id]; ok {
		return acct, nil
	}
	if !policies[kind].mayCreate {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, id)
	}

	acct := &models.Account{ID: id}
	l.accounts[id] = acct
	l.logger.Info("account created", zap.String("account_id", id))
	return acct, nil
}

// debit is shared by withdrawals and outgoing transfers so both draw on the
// same TotalOutCents counter. All checks run before any mutation.
func (l *Ledger) debit(acct *models.Account, amount, perTxLimit int64, limitErr error) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if amount > perTxLimit {
		return fmt.Errorf("%w: %d > %d", limitErr, amount, perTxLimit)
	}
	if acct.TotalOutCents+amount > l.limits.MaxTotalOutCents {
		return fmt.Errorf("%w: %d + %d > %d", ErrTotalOutLimitExceeded, acct.TotalOutCents, amount, l.limits.MaxTotalOutCents)
	}
	if amount > acct.BalanceCents {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientFunds, amount, acct.BalanceCents)
	}

	acct.BalanceCents -= amount
	acct.TotalOutCents += amount
	return nil
}

func credit(acct *models.Account, amount int64) {
	acct.BalanceCents += amount
}

// AccountByID returns a copy of the account, or false if it does not exist.
func (l *Ledger) AccountByID(id string) (models.Account, bool) {
	acct, ok := l.accounts[id]
	if !ok {
		return models.Account{}, false
	}
	return *acct, true
}

// AccountsWithNonZeroBalance returns copies of every account with a non-zero
// balance, sorted by account id.
func (l *Ledger) AccountsWithNonZeroBalance() []models.Account {
	out := make([]models.Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		if acct.BalanceCents != 0 {
			out = append(out, *acct)
		}
	}
	slices.SortFunc(out, func(a, b models.Account) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func opFields(op models.Operation) []zap.Field {
	fields := []zap.Field{
		zap.Stringer("kind", op.Kind),
		zap.Int64("amount_cents", op.AmountCents),
	}
	if op.Kind == models.Transfer {
		return append(fields,
			zap.String("source_account_id", op.SourceAccountID),
			zap.String("destination_account_id", op.DestinationAccountID),
		)
	}
	return append(fields, zap.String("account_id", op.AccountID))
}
