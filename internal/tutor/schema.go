package tutor

import "github.com/kelly1311/app-simulador-examen-az-104/internal/llm"

// ExplanationSchema is the structured output requested for an explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why the correct options answer an AZ-104 exam question and where the learner went wrong",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-4 sentences explaining why the correct options are right",
			},
			"mistake": map[string]any{
				"type":        "string",
				"description": "1-2 sentences on why the learner's choice is wrong; empty if it was correct",
			},
			"remember": map[string]any{
				"type":        "string",
				"description": "One short rule of thumb to remember for the exam",
			},
			"docs_topic": map[string]any{
				"type":        "string",
				"description": "The Azure service or feature to read about, e.g. 'Azure Policy effects'",
			},
		},
		"required":             []any{"summary", "mistake", "remember", "docs_topic"},
		"additionalProperties": false,
	},
}
