package session

import (
	"errors"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/router"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screen"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screens/summary"
	sess "github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/tutor"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/components"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/layout"
)

// Deps are the shared services a session screen hands down to the
// results and review screens.
type Deps struct {
	// Budget is the exam countdown. Zero means sess.ExamTimeLimit.
	Budget time.Duration

	// Tutor is nil when no LLM provider is configured.
	Tutor *tutor.Service

	Logger *slog.Logger

	// Clock overrides time.Now for the engine.
	Clock func() time.Time
}

// SessionScreen implements screen.Screen for a practice run or exam.
type SessionScreen struct {
	deps   Deps
	engine *sess.Session
	title  string

	choices  components.ChoiceList
	feedback *sess.AnsweredQuestion
	quitting bool
	errMsg   string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.EscHandler = (*SessionScreen)(nil)

// New starts a session over items. title names the run in the header.
func New(items []sess.Item, mode sess.Mode, title string, deps Deps) *SessionScreen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	engine := sess.New(items, sess.Options{
		Mode:   mode,
		Budget: deps.Budget,
		Clock:  deps.Clock,
	})
	deps.Logger.Debug("session started",
		"session_id", engine.ID(),
		"mode", mode,
		"questions", engine.Len(),
	)

	s := &SessionScreen{deps: deps, engine: engine, title: title}
	s.resetChoices()
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.engine.State() == sess.StateCompleted {
		return endCmd()
	}
	if s.engine.Timed() {
		return tickCmd()
	}
	return nil
}

func (s *SessionScreen) Title() string {
	return s.title
}

// HandlesEsc keeps Esc inside the screen so it can ask before abandoning.
func (s *SessionScreen) HandlesEsc() bool {
	return true
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.quitting:
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	case s.choices.Multiple:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Toggle"},
			{Key: "Space", Description: "Toggle"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

// Status returns the countdown for exams and the running score for practice.
func (s *SessionScreen) Status() string {
	if s.engine.Timed() {
		return renderCountdown(s.engine.Timer())
	}
	return renderScore(s.engine.Score(), len(s.engine.Answers()))
}

func (s *SessionScreen) View(width, height int) string {
	if s.quitting {
		return renderQuitConfirm(width, s.engine.Mode())
	}
	if s.feedback != nil {
		return s.renderFeedback(width)
	}
	return s.renderQuestionView(width)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTimerTick()

	case sessionEndMsg:
		return s.handleSessionEnd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.engine.State() == sess.StateCompleted {
		return s, nil
	}
	if s.engine.Expire() {
		s.deps.Logger.Info("exam timed out", "session_id", s.engine.ID())
		return s, endCmd()
	}
	return s, tickCmd()
}

func (s *SessionScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	res, err := s.engine.Result()
	if err != nil {
		// Not reachable once the engine reports completion.
		s.errMsg = err.Error()
		return s, nil
	}
	s.deps.Logger.Debug("session finished",
		"session_id", res.SessionID,
		"correct", res.Correct,
		"total", res.Total,
		"timed_out", res.TimedOut,
	)
	next := summary.New(res, s.engine.Answers(), s.deps.Tutor)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.quitting {
		switch key {
		case "y", "Y":
			s.deps.Logger.Debug("session abandoned", "session_id", s.engine.ID())
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "n", "N", "esc":
			s.quitting = false
		}
		return s, nil
	}

	if s.feedback != nil {
		s.feedback = nil
		if s.engine.State() == sess.StateCompleted {
			return s, endCmd()
		}
		s.resetChoices()
		return s, nil
	}

	if s.engine.State() == sess.StateCompleted {
		return s, nil
	}

	if key == "esc" {
		s.quitting = true
		return s, nil
	}

	s.errMsg = ""
	var submit bool
	s.choices, submit = s.choices.Update(msg)
	if !submit {
		if key == "enter" && s.choices.Multiple {
			s.errMsg = "Select at least one option."
		}
		return s, nil
	}
	return s.submitAnswer()
}

// submitAnswer grades the current selection. An exam past its deadline is
// timed out instead.
func (s *SessionScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	s.errMsg = ""
	if s.engine.Expire() {
		return s, endCmd()
	}

	snap, err := s.engine.Submit(s.choices.Selection())
	if err != nil {
		if errors.Is(err, sess.ErrInvalidSelection) {
			s.errMsg = "That selection is not valid for this question."
			return s, nil
		}
		s.errMsg = err.Error()
		return s, nil
	}

	if s.engine.Mode() == sess.ModePractice {
		last := snap.Last
		s.feedback = &last
		return s, nil
	}

	if snap.State == sess.StateCompleted {
		return s, endCmd()
	}
	s.resetChoices()
	return s, nil
}

func (s *SessionScreen) resetChoices() {
	item, ok := s.engine.Current()
	if !ok {
		s.choices = components.ChoiceList{}
		return
	}
	s.choices = components.NewChoiceList(item.Question.Options, item.Question.IsMultiple())
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func endCmd() tea.Cmd {
	return func() tea.Msg { return sessionEndMsg{} }
}
