package bank

import (
	"fmt"
	"strings"
)

// validateTopics performs all structural checks on the given topics.
// Returns a combined error wrapping ErrInvalidQuestionBank, or nil if valid.
func validateTopics(topics []Topic) error {
	var errs []string

	if len(topics) == 0 {
		errs = append(errs, "bank has no topics")
	}

	topicIDs := make(map[string]bool, len(topics))
	for _, t := range topics {
		if strings.TrimSpace(t.ID) == "" {
			errs = append(errs, fmt.Sprintf("topic %q has an empty ID", t.Name))
		} else if topicIDs[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate topic ID: %q", t.ID))
		}
		topicIDs[t.ID] = true

		if len(t.Questions) == 0 {
			errs = append(errs, fmt.Sprintf("topic %q has no questions", t.ID))
		}

		questionIDs := make(map[int]bool, len(t.Questions))
		for _, q := range t.Questions {
			if questionIDs[q.ID] {
				errs = append(errs, fmt.Sprintf("topic %q: duplicate question ID %d", t.ID, q.ID))
			}
			questionIDs[q.ID] = true
			errs = append(errs, validateQuestion(t.ID, q)...)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidQuestionBank, strings.Join(errs, "\n  "))
	}
	return nil
}

func validateQuestion(topicID string, q Question) []string {
	var errs []string
	prefix := fmt.Sprintf("topic %q question %d", topicID, q.ID)

	if strings.TrimSpace(q.Prompt) == "" {
		errs = append(errs, prefix+": empty prompt")
	}
	if len(q.Options) == 0 {
		errs = append(errs, prefix+": empty options list")
	}

	switch q.Kind {
	case KindSingle:
		if len(q.Answer) != 1 {
			errs = append(errs, fmt.Sprintf("%s: single-kind question needs exactly 1 answer, got %d", prefix, len(q.Answer)))
		}
	case KindMultiple:
		if len(q.Answer) == 0 {
			errs = append(errs, prefix+": multiple-kind question has no answers")
		}
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown kind %q", prefix, q.Kind))
	}

	seen := make(map[int]bool, len(q.Answer))
	for _, a := range q.Answer {
		if a < 0 || a >= len(q.Options) {
			errs = append(errs, fmt.Sprintf("%s: answer index %d out of range [0,%d)", prefix, a, len(q.Options)))
		}
		if seen[a] {
			errs = append(errs, fmt.Sprintf("%s: duplicate answer index %d", prefix, a))
		}
		seen[a] = true
	}

	return errs
}
