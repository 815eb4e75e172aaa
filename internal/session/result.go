package session

import (
	"fmt"
	"time"
)

// Result is the final report of a completed session.
type Result struct {
	SessionID  string
	Mode       Mode
	Correct    int
	Total      int
	Percentage float64
	Passed     bool
	Duration   time.Duration
	TimedOut   bool
	ByTopic    []TopicScore
}

// Result builds the report. It is only available once the session completed.
func (s *Session) Result() (Result, error) {
	if s.state != StateCompleted {
		return Result{}, fmt.Errorf("%w: session still in progress", ErrInvalidState)
	}

	pct := percentage(s.score, len(s.items))
	return Result{
		SessionID:  s.id,
		Mode:       s.mode,
		Correct:    s.score,
		Total:      len(s.items),
		Percentage: pct,
		Passed:     len(s.items) > 0 && pct >= PassThreshold,
		Duration:   s.Elapsed(),
		TimedOut:   s.timedOut,
		ByTopic:    AggregateByTopic(s.answers),
	}, nil
}

// Topic returns the tally for a topic ID.
func (r Result) Topic(id string) (TopicScore, bool) {
	for _, t := range r.ByTopic {
		if t.TopicID == id {
			return t, true
		}
	}
	return TopicScore{}, false
}

// Unanswered counts questions left blank by a timeout.
func Unanswered(answers []AnsweredQuestion) int {
	n := 0
	for _, a := range answers {
		if a.TimedOut {
			n++
		}
	}
	return n
}
