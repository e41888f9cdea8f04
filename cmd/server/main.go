package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/llvar-ledger/internal/config"
	"github.com/sheikh-saqib/llvar-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/llvar-ledger/internal/httpapi"
	interfaces "github.com/sheikh-saqib/llvar-ledger/internal/interfaces"
	"github.com/sheikh-saqib/llvar-ledger/internal/logging"
	"github.com/sheikh-saqib/llvar-ledger/internal/processor"
	"github.com/sheikh-saqib/llvar-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/llvar-ledger/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	// Run store: postgres when a DSN is configured, otherwise memory.
	var store interfaces.RunStore = memory.NewMemoryRunStore()
	if cfg.DatabaseDSN != "" {
		db, err := postgres.Open(startCtx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.Migrate {
			if err := postgres.Migrate(startCtx, db); err != nil {
				return err
			}
			logger.Info("migrations complete")
		}
		store = postgres.NewPostgresRunStore(db)
		logger.Info("using postgres run store")
	}

	opts := []processor.Option{
		processor.WithLimits(cfg.Limits),
		processor.WithLogger(logger),
		processor.WithRunStore(store),
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer publisher.Close()
		opts = append(opts, processor.WithPublisher(publisher, cfg.KafkaTopicPrefix))
		logger.Info("publishing events", zap.Strings("brokers", cfg.KafkaBrokers))
	}
	svc := processor.NewService(opts...)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.Router(httpapi.NewHandlers(svc, store, logger), cfg.MaxInflight),

		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
