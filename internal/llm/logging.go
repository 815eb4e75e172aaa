package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider records every request through slog.
type LoggingProvider struct {
	inner  Provider
	logger *slog.Logger
}

// WithLogging wraps a Provider with structured request logging.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		"model", l.inner.ModelID(),
		"purpose", PurposeFrom(ctx),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if req.Schema != nil {
		attrs = append(attrs, "schema", req.Schema.Name)
	}

	if err != nil {
		l.logger.WarnContext(ctx, "llm request failed", append(attrs, "error", err)...)
		return nil, err
	}

	attrs = append(attrs,
		"served_by", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	l.logger.DebugContext(ctx, "llm request", attrs...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
