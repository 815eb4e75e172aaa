package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/config"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/llm"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/store"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/tutor"
)

var rootCmd = &cobra.Command{
	Use:   "az104",
	Short: "AZ-104 exam practice simulator",
	Long: `az104 drills you on the Microsoft Azure Administrator (AZ-104) exam.

Practice one topic at a time with immediate feedback, or sit a timed exam
drawn from every topic and review your answers at the end.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("bank", "", "Path to a JSON or YAML question bank (overrides AZ104_BANK)")
	pf.String("db", "", "Path to the SQLite bank store (overrides AZ104_DB)")
	pf.Uint64("seed", 0, "Fix the question order (overrides AZ104_SEED)")
	pf.String("log-level", "", "Log level: debug, info, warn or error (overrides AZ104_LOG_LEVEL)")
	pf.String("env-file", "", "Load settings from this .env file instead of ./.env")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var envFiles []string
	if f, _ := cmd.Flags().GetString("env-file"); f != "" {
		envFiles = append(envFiles, f)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return cfg, err
	}

	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		cfg.BankPath = p
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
		cfg.HasSeed = true
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	return cfg, nil
}

// stderrLogger builds the logger for commands that do not own the terminal.
func stderrLogger(cfg config.Config) (*slog.Logger, error) {
	return config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// resolveDBPath returns the database path from --db / AZ104_DB, then the
// default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// loadBank picks the question bank: an explicit file first, then the most
// recently imported bank in the store, then the embedded bank. source
// describes where it came from.
func loadBank(ctx context.Context, cfg config.Config) (b *bank.Bank, source string, err error) {
	if cfg.BankPath != "" {
		b, err := bank.LoadFile(cfg.BankPath)
		return b, cfg.BankPath, err
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("resolve DB path: %w", err)
	}
	if _, statErr := os.Stat(dbPath); statErr == nil {
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		b, err := st.Banks().Latest(ctx)
		switch {
		case err == nil:
			return b, dbPath, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, "", err
		}
	}

	b, err = bank.Default()
	return b, "embedded", err
}

func newSelector(b *bank.Bank, cfg config.Config) *session.Selector {
	if cfg.HasSeed {
		return session.NewSeededSelector(b, cfg.Seed)
	}
	return session.NewSelector(b, nil)
}

// newTutor builds the optional AI tutor. It returns llm.ErrNotConfigured
// when no provider is set up.
func newTutor(ctx context.Context, logger *slog.Logger) (*tutor.Service, error) {
	provider, err := llm.NewProviderFromEnv(ctx, logger)
	if err != nil {
		return nil, err
	}
	return tutor.NewService(provider, tutor.DefaultConfig()), nil
}

// warnNoTutor tells the user why tutor explanations are missing. Silence
// when nothing is configured at all.
func warnNoTutor(w io.Writer, err error) {
	if errors.Is(err, llm.ErrNotConfigured) {
		return
	}
	fmt.Fprintln(w, "AI tutor not available:", err)
	fmt.Fprintln(w, "Answer review will work without tutor explanations.")
}
