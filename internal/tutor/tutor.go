// Package tutor asks an LLM to explain reviewed exam answers.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/llm"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

// Explanation is the tutor's answer for one question.
type Explanation struct {
	Summary   string `json:"summary"`
	Mistake   string `json:"mistake"`
	Remember  string `json:"remember"`
	DocsTopic string `json:"docs_topic"`
}

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the default generation settings.
func DefaultConfig() Config {
	return Config{MaxTokens: 600, Temperature: 0.2}
}

// Service generates explanations and caches them per question and answer.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu    sync.Mutex
	cache map[string]*Explanation
}

// NewService creates a tutor backed by provider.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg, cache: make(map[string]*Explanation)}
}

// Explain returns an explanation for an answered question.
func (s *Service) Explain(ctx context.Context, a session.AnsweredQuestion) (*Explanation, error) {
	key := cacheKey(a)
	s.mu.Lock()
	if e, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return e, nil
	}
	s.mu.Unlock()

	ctx = llm.WithPurpose(ctx, "explain")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(a)),
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explain question %d: %w", a.Question.ID, err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}

	s.mu.Lock()
	s.cache[key] = &out
	s.mu.Unlock()
	return &out, nil
}

// cacheKey identifies a question together with the learner's selection,
// since the "mistake" part depends on it.
func cacheKey(a session.AnsweredQuestion) string {
	key := a.TopicID + "/" + strconv.Itoa(a.Question.ID) + ":"
	if a.TimedOut {
		return key + "timeout"
	}
	for _, i := range a.Selection {
		key += strconv.Itoa(i) + ","
	}
	return key
}
