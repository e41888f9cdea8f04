package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	interfaces "github.com/sheikh-saqib/llvar-ledger/internal/interfaces"
	"github.com/sheikh-saqib/llvar-ledger/internal/models"
	"github.com/sheikh-saqib/llvar-ledger/internal/storage"
)

// MemoryRunStore is an in-memory implementation of interfaces.RunStore.
// It is safe for concurrent use by many runs.
type MemoryRunStore struct {
	mu   sync.Mutex            // protects runs
	runs map[string]models.Run // keyed by run id
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		runs: make(map[string]models.Run),
	}
}

// SaveRun stores a copy of run, replacing any run with the same id.
func (m *MemoryRunStore) SaveRun(ctx context.Context, run models.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	run.Accounts = slices.Clone(run.Accounts) // caller may reuse its slice
	m.runs[run.ID] = run
	return nil
}

func (m *MemoryRunStore) GetRun(ctx context.Context, id string) (models.Run, error) {
	if err := ctx.Err(); err != nil {
		return models.Run{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[id]
	if !ok {
		return models.Run{}, fmt.Errorf("run %q: %w", id, storage.ErrNotFound)
	}
	run.Accounts = slices.Clone(run.Accounts)
	return run, nil
}

// Compile-time check: ensure MemoryRunStore implements RunStore interface
var _ interfaces.RunStore = (*MemoryRunStore)(nil)
