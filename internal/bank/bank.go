package bank

import (
	"errors"
	"slices"
)

// ErrInvalidQuestionBank marks malformed bank data detected at load time.
var ErrInvalidQuestionBank = errors.New("invalid question bank")

// Kind describes how a question is answered.
type Kind string

const (
	// KindSingle questions have exactly one correct option.
	KindSingle Kind = "single"

	// KindMultiple questions have a set of correct options.
	KindMultiple Kind = "multiple"
)

// Question is a single multiple-choice or multi-select item.
type Question struct {
	// ID is unique within the owning topic.
	ID int `json:"id" yaml:"id"`

	Kind   Kind   `json:"kind" yaml:"kind"`
	Prompt string `json:"prompt" yaml:"prompt"`

	// Options are the answer choices, displayed lettered A, B, C, ...
	Options []string `json:"options" yaml:"options"`

	// Answer holds option indices. A single-kind question has exactly one
	// element; a multiple-kind question holds the full correct set.
	Answer []int `json:"answer" yaml:"answer"`

	Explanation string `json:"explanation" yaml:"explanation"`
}

// IsMultiple reports whether the question accepts several options.
func (q Question) IsMultiple() bool {
	return q.Kind == KindMultiple
}

// AnswerIndex returns the correct option of a single-kind question.
func (q Question) AnswerIndex() int {
	if len(q.Answer) == 0 {
		return -1
	}
	return q.Answer[0]
}

// Topic is a named exam domain and its questions.
type Topic struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Weight is the informational share of the real exam, e.g. "20-25%".
	Weight string `json:"weight" yaml:"weight"`

	Questions []Question `json:"questions" yaml:"questions"`
}

// Bank is a read-only question bank. It is safe to share between
// goroutines because nothing mutates it after construction.
type Bank struct {
	exam   string
	title  string
	topics []Topic
	byID   map[string]int
}

// New validates the topics and returns an immutable Bank holding a deep
// copy of them.
func New(exam, title string, topics []Topic) (*Bank, error) {
	if err := validateTopics(topics); err != nil {
		return nil, err
	}

	b := &Bank{
		exam:   exam,
		title:  title,
		topics: make([]Topic, len(topics)),
		byID:   make(map[string]int, len(topics)),
	}
	for i, t := range topics {
		b.topics[i] = cloneTopic(t)
		b.byID[t.ID] = i
	}
	return b, nil
}

// Exam returns the exam code, e.g. "AZ-104".
func (b *Bank) Exam() string { return b.exam }

// Title returns the exam's display title.
func (b *Bank) Title() string { return b.title }

// Topics returns the topics in bank order. The returned slice is a copy;
// the questions inside must be treated as read-only.
func (b *Bank) Topics() []Topic {
	return slices.Clone(b.topics)
}

// Topic looks up a topic by ID.
func (b *Bank) Topic(id string) (Topic, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Topic{}, false
	}
	return b.topics[i], true
}

// TopicIDs returns the topic identifiers in bank order.
func (b *Bank) TopicIDs() []string {
	ids := make([]string, len(b.topics))
	for i, t := range b.topics {
		ids[i] = t.ID
	}
	return ids
}

// Size returns the total number of questions across all topics.
func (b *Bank) Size() int {
	n := 0
	for _, t := range b.topics {
		n += len(t.Questions)
	}
	return n
}

func cloneTopic(t Topic) Topic {
	out := t
	out.Questions = make([]Question, len(t.Questions))
	for i, q := range t.Questions {
		q.Options = slices.Clone(q.Options)
		q.Answer = slices.Clone(q.Answer)
		out.Questions[i] = q
	}
	return out
}
