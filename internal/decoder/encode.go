package decoder

import (
	"fmt"

	"github.com/sheikh-saqib/llvar-ledger/internal/models"
)

// Encode renders op in the record format Decode reads. The amount is
// zero-padded to 10 digits, which is what existing producers emit.
func Encode(op models.Operation) (string, error) {
	code := op.Kind.Code()
	if code == "" {
		return "", fmt.Errorf("encode %v: %w", op.Kind, ErrUnknownOperationCode)
	}
	if op.AmountCents < 0 {
		return "", fmt.Errorf("encode amount %d: %w", op.AmountCents, ErrInvalidAmount)
	}

	out := code
	ids := []string{op.AccountID}
	if op.Kind == models.Transfer {
		ids = []string{op.SourceAccountID, op.DestinationAccountID}
	}
	for _, id := range ids {
		if len(id) > 99 {
			return "", fmt.Errorf("encode account %q: %w", id, ErrMalformedRecord)
		}
		out += fmt.Sprintf("%02d%s", len(id), id)
	}

	return out + fmt.Sprintf("%010d", op.AmountCents), nil
}
