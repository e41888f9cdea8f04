package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sheikh-saqib/llvar-ledger/internal/ledger"
)

var ErrInvalidLimit = errors.New("invalid limit")

type Config struct {
	HTTPAddr    string
	LogLevel    string
	MaxInflight int

	DatabaseDSN string // empty selects the in-memory run store
	Migrate     bool

	KafkaBrokers     []string // empty disables event publication
	KafkaTopicPrefix string

	Limits ledger.Limits
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	limits, err := loadLimits()
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPAddr:    mustEnv("LEDGER_HTTP_ADDR", ":8080"),
		LogLevel:    mustEnv("LOG_LEVEL", "info"),
		MaxInflight: mustIntEnv("LEDGER_HTTP_MAX_INFLIGHT", 64),

		DatabaseDSN: os.Getenv("LEDGER_DB_DSN"),
		Migrate:     mustEnv("LEDGER_DB_MIGRATE", "0") == "1",

		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicPrefix: mustEnv("KAFKA_TOPIC_PREFIX", "ledger"),

		Limits: limits,
	}, nil
}

// loadLimits reads the business caps. Unlike the operational settings, a
// bad cap is an error rather than a silent fallback to the default.
func loadLimits() (ledger.Limits, error) {
	limits := ledger.DefaultLimits()
	fields := []struct {
		key string
		dst *int64
	}{
		{"LEDGER_MAX_DEPOSIT_CENTS", &limits.MaxDepositCents},
		{"LEDGER_MAX_WITHDRAWAL_CENTS", &limits.MaxWithdrawalCents},
		{"LEDGER_MAX_TRANSFER_CENTS", &limits.MaxTransferCents},
		{"LEDGER_MAX_TOTAL_OUT_CENTS", &limits.MaxTotalOutCents},
	}
	for _, f := range fields {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return ledger.Limits{}, fmt.Errorf("%s=%q: %w", f.key, v, ErrInvalidLimit)
		}
		if n <= 0 {
			return ledger.Limits{}, fmt.Errorf("%s=%d must be positive: %w", f.key, n, ErrInvalidLimit)
		}
		*f.dst = n
	}
	return limits, nil
}

func mustEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func mustIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
