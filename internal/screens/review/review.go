// Package review walks through graded answers one question at a time.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screen"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/tutor"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/components"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/layout"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/theme"
)

const explainTimeout = 60 * time.Second

// explainDoneMsg carries a tutor reply for answers[index].
type explainDoneMsg struct {
	index int
	exp   *tutor.Explanation
	err   error
}

// ReviewScreen shows each answered question with the learner's choice,
// the correct options and the explanation.
type ReviewScreen struct {
	answers []session.AnsweredQuestion
	tutor   *tutor.Service

	visible   []int // indices into answers
	pos       int
	onlyWrong bool

	explanations map[int]*tutor.Explanation
	pending      map[int]bool
	errs         map[int]string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a review over answers. t may be nil, which hides the tutor.
func New(answers []session.AnsweredQuestion, t *tutor.Service) *ReviewScreen {
	r := &ReviewScreen{
		answers:      answers,
		tutor:        t,
		explanations: make(map[int]*tutor.Explanation),
		pending:      make(map[int]bool),
		errs:         make(map[int]string),
	}
	r.filter()
	return r
}

func (r *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (r *ReviewScreen) Title() string {
	return "Answer Review"
}

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Prev/Next"},
		{Key: "W", Description: "Only mistakes"},
	}
	if r.tutor != nil {
		hints = append(hints, layout.KeyHint{Key: "X", Description: "Ask tutor"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainDoneMsg:
		delete(r.pending, msg.index)
		if msg.err != nil {
			r.errs[msg.index] = msg.err.Error()
		} else {
			r.explanations[msg.index] = msg.exp
		}
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "right", "l", "n":
			if r.pos < len(r.visible)-1 {
				r.pos++
			}
		case "left", "h", "p":
			if r.pos > 0 {
				r.pos--
			}
		case "w", "W":
			r.onlyWrong = !r.onlyWrong
			r.filter()
		case "x", "X":
			return r, r.explain()
		}
	}
	return r, nil
}

// filter rebuilds the visible list, keeping the current question when it
// survives the filter.
func (r *ReviewScreen) filter() {
	current, ok := r.current()
	r.visible = r.visible[:0]
	r.pos = 0
	for i, a := range r.answers {
		if r.onlyWrong && a.Correct {
			continue
		}
		if ok && i == current {
			r.pos = len(r.visible)
		}
		r.visible = append(r.visible, i)
	}
}

func (r *ReviewScreen) current() (int, bool) {
	if r.pos < 0 || r.pos >= len(r.visible) {
		return 0, false
	}
	return r.visible[r.pos], true
}

func (r *ReviewScreen) explain() tea.Cmd {
	idx, ok := r.current()
	if !ok || r.tutor == nil || r.pending[idx] || r.explanations[idx] != nil {
		return nil
	}
	r.pending[idx] = true
	delete(r.errs, idx)

	svc := r.tutor
	a := r.answers[idx]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), explainTimeout)
		defer cancel()
		exp, err := svc.Explain(ctx, a)
		return explainDoneMsg{index: idx, exp: exp, err: err}
	}
}

func (r *ReviewScreen) View(width, height int) string {
	idx, ok := r.current()
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Render("\n\n\nNo mistakes to review. Press W to show every answer.")
	}

	a := r.answers[idx]
	q := a.Question
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", idx+1, len(r.answers))))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + a.TopicName + "  "))
	b.WriteString(verdict(a))
	if r.onlyWrong {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  (mistake %d of %d)", r.pos+1, len(r.visible))))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(components.RenderGraded(q.Options, q.Answer, a.Selection, cw))
	b.WriteString("\n")

	yours := bank.Letters(a.Selection)
	if a.TimedOut || yours == "" {
		yours = "—"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("Your answer: " + yours))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("Correct answer: " + bank.Letters(q.Answer)))
	b.WriteString("\n")

	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Secondary).Render("Explanation: " + q.Explanation))
		b.WriteString("\n")
	}

	b.WriteString(r.renderTutor(idx, cw))

	return "\n" + layout.Center(width, b.String())
}

func (r *ReviewScreen) renderTutor(idx, width int) string {
	if r.tutor == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case r.pending[idx]:
		b.WriteString(theme.Hint.Render("Asking the tutor..."))
	case r.errs[idx] != "":
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Error).
			Render("Tutor unavailable: " + r.errs[idx]))
	case r.explanations[idx] != nil:
		e := r.explanations[idx]
		body := e.Summary
		if e.Mistake != "" {
			body += "\n\nWhere it went wrong: " + e.Mistake
		}
		body += "\n\nRemember: " + e.Remember
		if e.DocsTopic != "" {
			body += "\nRead up on: " + e.DocsTopic
		}
		b.WriteString(theme.Card.Width(width).Foreground(theme.Text).Render(body))
	default:
		b.WriteString(theme.Hint.Render("Press X for a tutor explanation."))
	}
	return b.String()
}

func verdict(a session.AnsweredQuestion) string {
	switch {
	case a.TimedOut:
		return lipgloss.NewStyle().Foreground(theme.Warning).Render("Unanswered")
	case a.Correct:
		return theme.Correct.Render("Correct")
	default:
		return theme.Incorrect.Render("Incorrect")
	}
}
