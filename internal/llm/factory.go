package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider creates the configured provider wrapped as
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, logger), cfg.Retry), nil
}

// NewProviderFromEnv resolves the configuration from the environment.
// It returns ErrNotConfigured when no provider is set up.
func NewProviderFromEnv(ctx context.Context, logger *slog.Logger) (Provider, error) {
	cfg, ok := ConfigFromEnv()
	if !ok {
		return nil, ErrNotConfigured
	}
	return NewProvider(ctx, cfg, logger)
}
