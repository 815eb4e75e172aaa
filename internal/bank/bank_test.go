package bank

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTopics() []Topic {
	return []Topic{
		{
			ID:     "storage",
			Name:   "Storage",
			Weight: "15-20%",
			Questions: []Question{
				{ID: 1, Kind: KindSingle, Prompt: "Pick B", Options: []string{"a", "b", "c", "d"}, Answer: []int{1}, Explanation: "b"},
				{ID: 2, Kind: KindMultiple, Prompt: "Pick A and C", Options: []string{"a", "b", "c", "d"}, Answer: []int{0, 2}},
			},
		},
	}
}

func TestDefault_EmbeddedBankIsValid(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "AZ-104", b.Exam())
	assert.Len(t, b.Topics(), 5)
	assert.Equal(t, 75, b.Size())

	for _, topic := range b.Topics() {
		assert.Len(t, topic.Questions, 15, "topic %s", topic.ID)
	}
}

func TestNew_CopiesInput(t *testing.T) {
	topics := validTopics()
	b, err := New("X", "x", topics)
	require.NoError(t, err)

	topics[0].Questions[0].Options[0] = "mutated"
	topics[0].Questions[0].Answer[0] = 3

	got, ok := b.Topic("storage")
	require.True(t, ok)
	assert.Equal(t, "a", got.Questions[0].Options[0])
	assert.Equal(t, 1, got.Questions[0].AnswerIndex())
}

func TestTopicLookup(t *testing.T) {
	b, err := New("X", "x", validTopics())
	require.NoError(t, err)

	_, ok := b.Topic("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"storage"}, b.TopicIDs())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Topic) []Topic
		wantMsg string
	}{
		{"no topics", func([]Topic) []Topic { return nil }, "no topics"},
		{"duplicate topic", func(ts []Topic) []Topic { return append(ts, ts[0]) }, "duplicate topic ID"},
		{"empty topic id", func(ts []Topic) []Topic { ts[0].ID = " "; return ts }, "empty ID"},
		{"duplicate question id", func(ts []Topic) []Topic { ts[0].Questions[1].ID = 1; return ts }, "duplicate question ID 1"},
		{"answer out of range", func(ts []Topic) []Topic { ts[0].Questions[0].Answer = []int{4}; return ts }, "out of range"},
		{"negative answer", func(ts []Topic) []Topic { ts[0].Questions[0].Answer = []int{-1}; return ts }, "out of range"},
		{"empty options", func(ts []Topic) []Topic { ts[0].Questions[0].Options = nil; return ts }, "empty options"},
		{"single with two answers", func(ts []Topic) []Topic { ts[0].Questions[0].Answer = []int{0, 1}; return ts }, "exactly 1 answer"},
		{"multiple without answers", func(ts []Topic) []Topic { ts[0].Questions[1].Answer = nil; return ts }, "no answers"},
		{"duplicate answer index", func(ts []Topic) []Topic { ts[0].Questions[1].Answer = []int{0, 0}; return ts }, "duplicate answer index"},
		{"unknown kind", func(ts []Topic) []Topic { ts[0].Questions[0].Kind = "essay"; return ts }, "unknown kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("X", "x", tt.mutate(validTopics()))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidQuestionBank))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_SchemaViolation(t *testing.T) {
	_, err := Parse([]byte(`{"topics":[{"id":"a","name":"A","questions":[{"id":1,"kind":"single","prompt":"p","options":["x"],"answer":0}]}]}`), FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuestionBank)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidQuestionBank)
}

func TestParse_YAML(t *testing.T) {
	doc := `
exam: T-1
title: Test
topics:
  - id: net
    name: Networking
    weight: "10%"
    questions:
      - id: 1
        kind: multiple
        prompt: Which two?
        options: [a, b, c, d]
        answer: [0, 2]
        explanation: because
`
	b, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)

	topic, ok := b.Topic("net")
	require.True(t, ok)
	assert.True(t, topic.Questions[0].IsMultiple())
	assert.Equal(t, []int{0, 2}, topic.Questions[0].Answer)
}

func TestEncodeRoundTripThroughFile(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(b, format)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "bank."+string(format))
		require.NoError(t, os.WriteFile(path, data, 0o644))

		loaded, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, b.Size(), loaded.Size())
		assert.Equal(t, b.TopicIDs(), loaded.TopicIDs())
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("bank.YML"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("bank.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("bank"))
}

func TestLetters(t *testing.T) {
	assert.Equal(t, "A", Letter(0))
	assert.Equal(t, "D", Letter(3))
	assert.Equal(t, "A, C", Letters([]int{2, 0, 2}))
	assert.Equal(t, "—", Letters(nil))

	got, err := ParseLetters(" c, a ")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, got)

	_, err = ParseLetters("AB")
	assert.Error(t, err)
	_, err = ParseLetters("  ")
	assert.True(t, err != nil && strings.Contains(err.Error(), "no options"))
}
