// Package config loads az104 settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

// DefaultAddr is the web shell's listen address when AZ104_ADDR is unset.
const DefaultAddr = "127.0.0.1:8104"

// Config holds process-wide settings. Cobra flags override fields after Load.
type Config struct {
	// BankPath points at a JSON or YAML bank file. Empty uses the embedded bank.
	BankPath string

	// DBPath is the SQLite bank store. Empty disables the store.
	DBPath string

	Addr            string
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string

	// LogFile receives the terminal shell's logs. Empty discards them.
	LogFile string

	// Seed fixes the question order when HasSeed is set.
	Seed    uint64
	HasSeed bool

	ExamBudget time.Duration
}

// Load reads an optional .env file (or the given files) and then the
// AZ104_* environment variables. Variables already in the environment win
// over .env entries.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		BankPath:        os.Getenv("AZ104_BANK"),
		DBPath:          os.Getenv("AZ104_DB"),
		Addr:            getenvDefault("AZ104_ADDR", DefaultAddr),
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        getenvDefault("AZ104_LOG_LEVEL", "warn"),
		LogFormat:       getenvDefault("AZ104_LOG_FORMAT", "text"),
		LogFile:         os.Getenv("AZ104_LOG_FILE"),
		ExamBudget:      session.ExamTimeLimit,
	}

	if v := os.Getenv("AZ104_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: AZ104_SEED=%q is not a valid seed: %w", v, err)
		}
		cfg.Seed, cfg.HasSeed = seed, true
	}

	if v := os.Getenv("AZ104_EXAM_MINUTES"); v != "" {
		mins, err := strconv.Atoi(v)
		if err != nil || mins <= 0 {
			return Config{}, fmt.Errorf("config: AZ104_EXAM_MINUTES=%q must be a positive integer", v)
		}
		cfg.ExamBudget = time.Duration(mins) * time.Minute
	}

	if v := os.Getenv("AZ104_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: AZ104_SHUTDOWN_TIMEOUT=%q is not a valid duration: %w", v, err)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: unknown log level %q", s)
	}
	return lvl, nil
}

// NewLogger builds the process logger. format is "json" or "text".
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("config: unknown log format %q", format)
	}
}
