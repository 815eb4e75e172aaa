package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://question-bank.json"

// Schema is the JSON Schema every bank document must satisfy before the
// semantic checks in validateTopics run.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"exam":  map[string]any{"type": "string"},
		"title": map[string]any{"type": "string"},
		"topics": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":     map[string]any{"type": "string", "minLength": 1},
					"name":   map[string]any{"type": "string", "minLength": 1},
					"weight": map[string]any{"type": "string"},
					"questions": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":     map[string]any{"type": "integer"},
								"kind":   map[string]any{"type": "string", "enum": []any{"single", "multiple"}},
								"prompt": map[string]any{"type": "string", "minLength": 1},
								"options": map[string]any{
									"type":     "array",
									"minItems": 1,
									"items":    map[string]any{"type": "string"},
								},
								"answer": map[string]any{
									"type":     "array",
									"minItems": 1,
									"items":    map[string]any{"type": "integer", "minimum": 0},
								},
								"explanation": map[string]any{"type": "string"},
							},
							"required": []any{"id", "kind", "prompt", "options", "answer"},
						},
					},
				},
				"required": []any{"id", "name", "questions"},
			},
		},
	},
	"required": []any{"topics"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// validateSchema checks a raw JSON document against Schema.
func validateSchema(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrInvalidQuestionBank, err)
	}

	compileOnce.Do(func() {
		compiled, compileErr = compileSchema()
	})
	if compileErr != nil {
		return fmt.Errorf("compile bank schema: %w", compileErr)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuestionBank, err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	// The compiler wants a plain decoded JSON value, so round-trip the map.
	defBytes, err := json.Marshal(Schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
}
