package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/llm"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the AI tutor's LLM provider",
}

var llmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which provider and model the tutor would use",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		cfg, ok := llm.ConfigFromEnv()
		if !ok {
			fmt.Println("No LLM provider configured.")
			fmt.Println("Set AZ104_LLM_PROVIDER, or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY.")
			return nil
		}

		fmt.Printf("Provider:  %s\n", cfg.Provider)
		fmt.Printf("Model:     %s\n", cfg.Model)
		fmt.Printf("API key:   %s\n", maskKey(cfg.APIKey))
		if cfg.BaseURL != "" {
			fmt.Printf("Base URL:  %s\n", cfg.BaseURL)
		}
		fmt.Printf("Retries:   %d attempts, %s timeout\n", cfg.Retry.MaxAttempts, cfg.Timeout)
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Problem:   %v\n", err)
		}
		return nil
	},
}

var llmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ask the tutor to explain one bank question end to end",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := stderrLogger(cfg)
		if err != nil {
			return err
		}
		b, _, err := loadBank(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		t, err := newTutor(cmd.Context(), logger)
		if errors.Is(err, llm.ErrNotConfigured) {
			return fmt.Errorf("%w; see `az104 llm status`", err)
		}
		if err != nil {
			return err
		}

		topic := b.Topics()[0]
		q := topic.Questions[0]
		answered := session.AnsweredQuestion{
			Item:      session.Item{Question: q, TopicID: topic.ID, TopicName: topic.Name},
			Selection: q.Answer,
			Correct:   true,
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()
		start := time.Now()
		exp, err := t.Explain(ctx, answered)
		if err != nil {
			return err
		}

		sep := strings.Repeat("─", 60)
		fmt.Printf("Question:  %s\n", q.Prompt)
		fmt.Printf("Latency:   %s\n", time.Since(start).Round(time.Millisecond))
		fmt.Println(sep)
		fmt.Println(exp.Summary)
		fmt.Printf("Remember:  %s\n", exp.Remember)
		fmt.Printf("Read:      %s\n", exp.DocsTopic)
		return nil
	},
}

// maskKey shows only the last four characters of a secret.
func maskKey(k string) string {
	if k == "" {
		return "(missing)"
	}
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", 8) + k[len(k)-4:]
}

func init() {
	llmCmd.AddCommand(llmStatusCmd)
	llmCmd.AddCommand(llmPingCmd)
}
