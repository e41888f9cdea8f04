// Package processor runs an ordered batch of raw records through the decoder
// and a fresh ledger, and reports the resulting accounts.
//
// A record that fails to decode or an operation the ledger rejects never
// stops the batch; it is logged, counted and reported in the per-record
// results.
package processor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/llvar-ledger/internal/decoder"
	interfaces "github.com/sheikh-saqib/llvar-ledger/internal/interfaces"
	"github.com/sheikh-saqib/llvar-ledger/internal/ledger"
	"github.com/sheikh-saqib/llvar-ledger/internal/models"
	"github.com/sheikh-saqib/llvar-ledger/internal/models/events"
)

// Service processes batches of records. It holds no ledger state between
// calls, so one Service may serve concurrent requests.
type Service struct {
	limits      ledger.Limits
	logger      *zap.Logger
	publisher   interfaces.EventPublisher
	store       interfaces.RunStore
	topicPrefix string
	now         func() time.Time
	newID       func() string
}

type Option func(*Service)

func WithLimits(l ledger.Limits) Option { return func(s *Service) { s.limits = l } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

// WithPublisher enables event publication on "<prefix>.records" and "<prefix>.runs".
func WithPublisher(p interfaces.EventPublisher, topicPrefix string) Option {
	return func(s *Service) {
		s.publisher = p
		s.topicPrefix = topicPrefix
	}
}

func WithRunStore(st interfaces.RunStore) Option { return func(s *Service) { s.store = st } }

func withClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func withIDs(newID func() string) Option { return func(s *Service) { s.newID = newID } }

func NewService(opts ...Option) *Service {
	s := &Service{
		limits:      ledger.DefaultLimits(),
		topicPrefix: "ledger",
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Service) RecordsTopic() string { return s.topicPrefix + ".records" }

func (s *Service) RunsTopic() string { return s.topicPrefix + ".runs" }

// Process applies req.Transactions in order against a new ledger. Publishing
// and persistence failures are logged; the response is always complete.
func (s *Service) Process(ctx context.Context, req models.ProcessTransactionsRequest) models.ProcessTransactionsResponse {
	runID := s.newID()
	logger := s.logger.With(zap.String("run_id", runID))
	l := ledger.NewLedger(s.limits, logger)

	results := make([]models.RecordResult, 0, len(req.Transactions))
	stats := models.RunStats{Records: len(req.Transactions)}

	for i, record := range req.Transactions {
		res := models.RecordResult{Index: i, Record: record}

		op, err := decoder.Decode(record)
		if err != nil {
			logger.Warn("failed to decode record",
				zap.Int("record_index", i), zap.String("record", record), zap.Error(err))
			res.Status = models.RecordMalformed
			res.Reason = err.Error()
			stats.Malformed++
			results = append(results, res)
			continue
		}
		stats.Decoded++
		res.Operation = &op

		if err := l.Apply(op); err != nil {
			res.Status = models.RecordRejected
			res.Reason = err.Error()
			stats.Rejected++
		} else {
			res.Status = models.RecordApplied
			stats.Applied++
		}
		results = append(results, res)
	}

	accounts := l.AccountsWithNonZeroBalance()
	snapshots := make([]models.AccountSnapshot, 0, len(accounts))
	for _, a := range accounts {
		snapshots = append(snapshots, a.Snapshot())
	}

	digest, err := Digest(snapshots)
	if err != nil {
		logger.Error("failed to compute run digest", zap.Error(err))
	}

	run := models.Run{
		ID:          runID,
		Digest:      digest,
		Accounts:    snapshots,
		Stats:       stats,
		CompletedAt: s.now().UTC(),
	}
	logger.Info("run completed",
		zap.Int("records", stats.Records),
		zap.Int("applied", stats.Applied),
		zap.Int("rejected", stats.Rejected),
		zap.Int("malformed", stats.Malformed),
		zap.Int("accounts", len(snapshots)),
		zap.String("digest", digest),
	)

	s.save(ctx, logger, run)
	s.publish(ctx, logger, run, results)

	return models.ProcessTransactionsResponse{
		RunID:        runID,
		BankAccounts: snapshots,
		Results:      results,
		Stats:        stats,
		Digest:       digest,
	}
}

func (s *Service) save(ctx context.Context, logger *zap.Logger, run models.Run) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		logger.Error("failed to save run", zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, logger *zap.Logger, run models.Run, results []models.RecordResult) {
	if s.publisher == nil {
		return
	}

	recordEvents := make([]any, 0, len(results))
	for _, r := range results {
		recordEvents = append(recordEvents, recordEvent(run, r))
	}
	if err := s.publisher.Publish(ctx, s.RecordsTopic(), recordEvents...); err != nil {
		logger.Error("failed to publish record events", zap.String("topic", s.RecordsTopic()), zap.Error(err))
	}

	completed := events.RunCompleted{
		RunID:       run.ID,
		Digest:      run.Digest,
		Records:     run.Stats.Records,
		Applied:     run.Stats.Applied,
		Rejected:    run.Stats.Rejected,
		Malformed:   run.Stats.Malformed,
		Accounts:    len(run.Accounts),
		CompletedAt: run.CompletedAt,
	}
	if err := s.publisher.Publish(ctx, s.RunsTopic(), completed); err != nil {
		logger.Error("failed to publish run event", zap.String("topic", s.RunsTopic()), zap.Error(err))
	}
}

func recordEvent(run models.Run, r models.RecordResult) events.RecordProcessed {
	ev := events.RecordProcessed{
		RunID:      run.ID,
		Index:      r.Index,
		Status:     string(r.Status),
		Reason:     r.Reason,
		OccurredAt: run.CompletedAt,
	}
	if op := r.Operation; op != nil {
		ev.Kind = op.Kind.String()
		ev.Amount = op.AmountDollars()
		switch op.Kind {
		case models.Transfer:
			ev.FromAccount = op.SourceAccountID
			ev.ToAccount = op.DestinationAccountID
		case models.Withdrawal:
			ev.FromAccount = op.AccountID
		default:
			ev.ToAccount = op.AccountID
		}
	}
	return ev
}

// Digest returns the hex SHA-256 of the RFC 8785 canonical JSON of accounts.
// Equal account lists always give equal digests.
func Digest(accounts []models.AccountSnapshot) (string, error) {
	if accounts == nil {
		accounts = []models.AccountSnapshot{}
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		return "", err
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}
