package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/app"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/config"
	sessionscreen "github.com/kelly1311/app-simulador-examen-az-104/internal/screens/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the terminal exam simulator",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay builds dependencies and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := config.NewLogger(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	b, source, err := loadBank(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("bank loaded", "source", source, "exam", b.Exam(), "questions", b.Size())

	opts := app.Options{
		Selector: newSelector(b, cfg),
		Session: sessionscreen.Deps{
			Budget: cfg.ExamBudget,
			Logger: logger,
		},
	}
	t, err := newTutor(ctx, logger)
	if err != nil {
		warnNoTutor(os.Stderr, err)
	} else {
		opts.Session.Tutor = t
	}

	return app.Run(opts)
}
