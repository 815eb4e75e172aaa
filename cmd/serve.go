package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the exam simulator to a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			cfg.Addr = a
		}
		origins, _ := cmd.Flags().GetStringSlice("cors-origin")

		logger, err := stderrLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, source, err := loadBank(ctx, cfg)
		if err != nil {
			return err
		}
		logger.Info("bank loaded", "source", source, "exam", b.Exam(), "questions", b.Size())

		opts := web.Options{
			Budget:         cfg.ExamBudget,
			Logger:         logger,
			AllowedOrigins: origins,
		}
		if t, err := newTutor(ctx, logger); err != nil {
			logger.Warn("tutor disabled", "error", err)
		} else {
			opts.Tutor = t
		}

		srv := web.New(newSelector(b, cfg), opts)
		return web.Serve(ctx, srv.Handler(), web.ServeConfig{
			Addr:            cfg.Addr,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides AZ104_ADDR)")
	serveCmd.Flags().StringSlice("cors-origin", nil, "Allowed CORS origin; repeat for several")
}
