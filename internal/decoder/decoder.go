// Package decoder parses fixed-format LLVAR transaction records.
//
// A record is a 4-character operation code followed by one (deposit,
// withdrawal) or two (transfer) LLVAR account ids and a trailing amount in
// cents. An LLVAR field is a 2-digit decimal length followed by that many
// characters.
//
// The amount is everything after the last account id. Some legacy producers
// emit the amount as exactly 10 digits; those records decode identically,
// but a legacy parser that reads only 10 digits would truncate longer
// amounts that this package accepts.
package decoder

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sheikh-saqib/llvar-ledger/internal/models"
)

var (
	ErrMalformedRecord      = errors.New("malformed record")
	ErrUnknownOperationCode = errors.New("unknown operation code")
	ErrTruncatedRecord      = errors.New("truncated record")
	ErrInvalidAmount        = errors.New("invalid amount")
)

const (
	codeWidth   = 4
	lengthWidth = 2
)

// DecodeError reports where in the record decoding stopped.
type DecodeError struct {
	Offset int
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func fail(err error, offset int, format string, args ...any) error {
	return &DecodeError{Offset: offset, Detail: fmt.Sprintf(format, args...), Err: err}
}

// Decode converts one raw record into an Operation. It has no side effects.
func Decode(record string) (models.Operation, error) {
	if len(record) < codeWidth {
		return models.Operation{}, fail(ErrMalformedRecord, 0, "record shorter than %d characters", codeWidth)
	}

	code := record[:codeWidth]
	kind, ok := models.KindFromCode(code)
	if !ok {
		return models.Operation{}, fail(ErrUnknownOperationCode, 0, "code %q", code)
	}

	r := reader{record: record, pos: codeWidth}
	op := models.Operation{Kind: kind}

	switch kind {
	case models.Transfer:
		src, err := r.llvar("source account")
		if err != nil {
			return models.Operation{}, err
		}
		dst, err := r.llvar("destination account")
		if err != nil {
			return models.Operation{}, err
		}
		op.SourceAccountID = src
		op.DestinationAccountID = dst
	default:
		id, err := r.llvar("account")
		if err != nil {
			return models.Operation{}, err
		}
		op.AccountID = id
	}

	amount, err := r.amount()
	if err != nil {
		return models.Operation{}, err
	}
	op.AmountCents = amount
	return op, nil
}

type reader struct {
	record string
	pos    int
}

func (r *reader) llvar(field string) (string, error) {
	if len(r.record) < r.pos+lengthWidth {
		return "", fail(ErrTruncatedRecord, r.pos, "missing %s length", field)
	}
	prefix := r.record[r.pos : r.pos+lengthWidth]
	if !isDigits(prefix) {
		return "", fail(ErrMalformedRecord, r.pos, "%s length %q is not numeric", field, prefix)
	}
	n := int(prefix[0]-'0')*10 + int(prefix[1]-'0')
	r.pos += lengthWidth

	if len(r.record) < r.pos+n {
		return "", fail(ErrTruncatedRecord, r.pos, "%s declares %d characters, %d remain", field, n, len(r.record)-r.pos)
	}
	v := r.record[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *reader) amount() (int64, error) {
	s := r.record[r.pos:]
	if !isDigits(s) {
		return 0, fail(ErrInvalidAmount, r.pos, "amount %q is not an unsigned decimal", s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fail(ErrInvalidAmount, r.pos, "amount %q out of range", s)
	}
	return n, nil
}

// isDigits reports whether s is non-empty and ASCII digits only.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
