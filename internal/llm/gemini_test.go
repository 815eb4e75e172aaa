package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.0-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-2.5-flash", geminiModels))
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "description": "one paragraph"},
			"verdict": map[string]any{"type": "string", "enum": []any{"correct", "incorrect"}},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []string{"summary", "verdict"},
	}

	s := geminiSchema(def)
	assert.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 3)
	assert.Equal(t, genai.TypeString, s.Properties["summary"].Type)
	assert.Equal(t, "one paragraph", s.Properties["summary"].Description)
	assert.Equal(t, []string{"correct", "incorrect"}, s.Properties["verdict"].Enum)
	assert.Equal(t, genai.TypeArray, s.Properties["options"].Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["options"].Items.Type)
	assert.Equal(t, []string{"summary", "verdict"}, s.Required)
}
