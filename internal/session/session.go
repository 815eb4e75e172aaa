package session

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a session.
type State int

const (
	StateInProgress State = iota
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// AnsweredQuestion records one graded submission. Selection is nil when the
// question was filled in by a timeout.
type AnsweredQuestion struct {
	Item
	Selection []int
	Correct   bool
	TimedOut  bool
}

// Options configures a new session.
type Options struct {
	Mode Mode

	// Budget is the exam countdown. Zero means ExamTimeLimit. Ignored in
	// practice mode.
	Budget time.Duration

	// Clock overrides time.Now.
	Clock func() time.Time

	// StartedAt overrides the start instant. Zero means Clock().
	StartedAt time.Time
}

// Snapshot is returned after each accepted submission.
type Snapshot struct {
	// Position is the 1-based position of the question just answered.
	Position int
	Total    int
	Last     AnsweredQuestion
	Score    int
	State    State
}

// Session is the state machine for one practice run or exam attempt.
// It is not safe for concurrent use.
type Session struct {
	id    string
	mode  Mode
	items []Item

	cursor  int
	answers []AnsweredQuestion
	score   int
	state   State

	timer     *Timer
	clock     func() time.Time
	startedAt time.Time
	endedAt   time.Time
	timedOut  bool
}

// New starts a session over items, which are used in the given order.
func New(items []Item, opts Options) *Session {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	start := opts.StartedAt
	if start.IsZero() {
		start = clock()
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModePractice
	}

	s := &Session{
		id:        uuid.New().String(),
		mode:      mode,
		items:     slices.Clone(items),
		answers:   make([]AnsweredQuestion, 0, len(items)),
		clock:     clock,
		startedAt: start,
	}

	if mode == ModeExam {
		budget := opts.Budget
		if budget <= 0 {
			budget = ExamTimeLimit
		}
		s.timer = NewTimer(start, budget, clock)
	}

	if len(s.items) == 0 {
		s.complete()
	}
	return s
}

// Submit grades the selection for the current question and advances.
func (s *Session) Submit(selection []int) (Snapshot, error) {
	if s.state != StateInProgress {
		return Snapshot{}, fmt.Errorf("%w: session is %s", ErrInvalidState, s.state)
	}

	item := s.items[s.cursor]
	sel, err := checkSelection(item, selection)
	if err != nil {
		return Snapshot{}, err
	}

	answered := AnsweredQuestion{
		Item:      item,
		Selection: sel,
		Correct:   IsCorrect(item.Question, sel),
	}
	s.answers = append(s.answers, answered)
	if answered.Correct {
		s.score++
	}
	s.cursor++
	if s.cursor == len(s.items) {
		s.complete()
	}

	return Snapshot{
		Position: s.cursor,
		Total:    len(s.items),
		Last:     answered,
		Score:    s.score,
		State:    s.state,
	}, nil
}

// checkSelection validates a selection against the item's options and
// returns its normalized form.
func checkSelection(item Item, selection []int) ([]int, error) {
	if len(selection) == 0 {
		return nil, fmt.Errorf("%w: no option selected", ErrInvalidSelection)
	}
	n := len(item.Question.Options)
	for _, idx := range selection {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: option %d out of range [0,%d)", ErrInvalidSelection, idx, n)
		}
	}
	sel := normalize(selection)
	if !item.Question.IsMultiple() && len(sel) != 1 {
		return nil, fmt.Errorf("%w: question %d accepts a single option", ErrInvalidSelection, item.Question.ID)
	}
	return sel, nil
}

// Timeout finishes an exam whose time has run out. Every unanswered question
// is recorded as incorrect with no selection. Calling it on a completed
// session is a no-op; calling it in practice mode is ErrInvalidState.
func (s *Session) Timeout() error {
	if s.mode != ModeExam {
		return fmt.Errorf("%w: practice sessions are untimed", ErrInvalidState)
	}
	if s.state == StateCompleted {
		return nil
	}

	for _, item := range s.items[s.cursor:] {
		s.answers = append(s.answers, AnsweredQuestion{Item: item, TimedOut: true})
	}
	s.cursor = len(s.items)
	s.timedOut = true
	s.complete()
	return nil
}

// Expire applies Timeout if the exam's countdown has reached zero and the
// session is still in progress. It reports whether it did so.
func (s *Session) Expire() bool {
	if s.timer == nil || s.state != StateInProgress || !s.timer.IsExpired() {
		return false
	}
	return s.Timeout() == nil
}

func (s *Session) complete() {
	s.state = StateCompleted
	s.endedAt = s.clock()
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Cursor returns the index of the current question.
func (s *Session) Cursor() int { return s.cursor }

// Len returns the number of questions in the session.
func (s *Session) Len() int { return len(s.items) }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// TimedOut reports whether the session ended by timeout.
func (s *Session) TimedOut() bool { return s.timedOut }

// StartedAt returns the session's start instant.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Current returns the question under the cursor. ok is false once the
// session has completed.
func (s *Session) Current() (item Item, ok bool) {
	if s.state != StateInProgress {
		return Item{}, false
	}
	return s.items[s.cursor], true
}

// Answers returns a copy of the graded answers in presentation order.
func (s *Session) Answers() []AnsweredQuestion {
	out := make([]AnsweredQuestion, len(s.answers))
	for i, a := range s.answers {
		a.Selection = slices.Clone(a.Selection)
		out[i] = a
	}
	return out
}

// Timed reports whether the session has a countdown.
func (s *Session) Timed() bool { return s.timer != nil }

// Timer returns the exam countdown, or nil in practice mode.
func (s *Session) Timer() *Timer { return s.timer }

// RemainingTime returns the countdown's remaining time, or 0 in practice mode.
func (s *Session) RemainingTime() time.Duration {
	if s.timer == nil {
		return 0
	}
	return s.timer.Remaining()
}

// Elapsed returns time since start, frozen once the session completes.
func (s *Session) Elapsed() time.Duration {
	if s.state == StateCompleted {
		return s.endedAt.Sub(s.startedAt)
	}
	return s.clock().Sub(s.startedAt)
}
