package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver

	interfaces "github.com/sheikh-saqib/llvar-ledger/internal/interfaces"
	"github.com/sheikh-saqib/llvar-ledger/internal/models"
	"github.com/sheikh-saqib/llvar-ledger/internal/storage"
)

type PostgresRunStore struct {
	db *sql.DB
}

func NewPostgresRunStore(db *sql.DB) *PostgresRunStore {
	return &PostgresRunStore{
		db: db,
	}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (p *PostgresRunStore) SaveRun(ctx context.Context, run models.Run) error {
	const query = `INSERT INTO processing_runs (id, digest, accounts, stats, completed_at)
	VALUES ($1, $2, $3::jsonb, $4::jsonb, $5)
	ON CONFLICT (id) DO UPDATE SET
		digest = EXCLUDED.digest,
		accounts = EXCLUDED.accounts,
		stats = EXCLUDED.stats,
		completed_at = EXCLUDED.completed_at`

	accounts := run.Accounts
	if accounts == nil {
		accounts = []models.AccountSnapshot{}
	}
	accountsJSON, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, query, run.ID, run.Digest, string(accountsJSON), string(statsJSON), run.CompletedAt)
	return err
}

func (p *PostgresRunStore) GetRun(ctx context.Context, id string) (models.Run, error) {
	const query = `SELECT id, digest, accounts, stats, completed_at FROM processing_runs WHERE id = $1`

	var (
		run          models.Run
		accountsJSON []byte
		statsJSON    []byte
	)
	err := p.db.QueryRowContext(ctx, query, id).Scan(&run.ID, &run.Digest, &accountsJSON, &statsJSON, &run.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Run{}, fmt.Errorf("run %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Run{}, err
	}

	if err := json.Unmarshal(accountsJSON, &run.Accounts); err != nil {
		return models.Run{}, fmt.Errorf("decode accounts of run %q: %w", id, err)
	}
	if err := json.Unmarshal(statsJSON, &run.Stats); err != nil {
		return models.Run{}, fmt.Errorf("decode stats of run %q: %w", id, err)
	}
	return run, nil
}

var _ interfaces.RunStore = (*PostgresRunStore)(nil)
