package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// defaultModels holds the model used when none is configured.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
}

// discoveryOrder is the order in which standard API key variables are probed.
var discoveryOrder = []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter}

// Config selects and configures one provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
	Retry   RetryConfig
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config for provider with default model and retry.
func DefaultConfig(provider string) Config {
	return Config{
		Provider: provider,
		Model:    defaultModels[provider],
		Timeout:  30 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv resolves the provider configuration.
//
// AZ104_LLM_PROVIDER picks the provider explicitly; its key comes from
// AZ104_<PROVIDER>_API_KEY or the provider's standard variable (for example
// ANTHROPIC_API_KEY). Without it, the standard variables are probed in the
// order gemini, openai, anthropic, openrouter. ok is false when nothing is
// configured.
func ConfigFromEnv() (cfg Config, ok bool) {
	if p := strings.ToLower(os.Getenv("AZ104_LLM_PROVIDER")); p != "" {
		cfg = DefaultConfig(p)
		cfg.APIKey = apiKeyFromEnv(p)
		applyEnvOverrides(&cfg)
		return cfg, true
	}

	for _, p := range discoveryOrder {
		if key := apiKeyFromEnv(p); key != "" {
			cfg = DefaultConfig(p)
			cfg.APIKey = key
			applyEnvOverrides(&cfg)
			return cfg, true
		}
	}
	return Config{}, false
}

func envPrefix(provider string) string {
	return "AZ104_" + strings.ToUpper(provider) + "_"
}

func apiKeyFromEnv(provider string) string {
	if k := os.Getenv(envPrefix(provider) + "API_KEY"); k != "" {
		return k
	}
	return os.Getenv(strings.ToUpper(provider) + "_API_KEY")
}

func applyEnvOverrides(cfg *Config) {
	prefix := envPrefix(cfg.Provider)
	if m := os.Getenv(prefix + "MODEL"); m != "" {
		cfg.Model = m
	}
	if u := os.Getenv(prefix + "BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("%sAPI_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
		}
		return nil
	case "":
		return ErrNotConfigured
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
