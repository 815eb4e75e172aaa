// Package llm is a small provider-neutral layer over the Anthropic, OpenAI,
// Gemini, and OpenRouter APIs. It returns JSON validated against a schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a response for a Request.
type Provider interface {
	// Generate sends the request. When req.Schema is set, the response
	// Content is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage builds a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "answer-explanation".
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the generated output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish validates content against the request schema and assembles the
// Response shared by every provider.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == "max_tokens" && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
