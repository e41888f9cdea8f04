package interfaces

import (
	"context"

	"github.com/sheikh-saqib/llvar-ledger/internal/models"
)

// RunStore keeps an audit copy of completed runs. Ledgers never read it back.
type RunStore interface {
	SaveRun(ctx context.Context, run models.Run) error
	GetRun(ctx context.Context, id string) (models.Run, error)
}
