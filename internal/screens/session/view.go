package session

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	sess "github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/components"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/layout"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/theme"
)

// renderQuestionView renders the active question display.
func (s *SessionScreen) renderQuestionView(width int) string {
	item, ok := s.engine.Current()
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Calculating your results...")
	}

	cw := layout.ContentWidth(width)
	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d of %d", s.engine.Cursor()+1, s.engine.Len()))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(item.TopicName)

	infoLine := infoLeft
	if pad := cw - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight); pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	progress := components.NewProgressBar("", float64(s.engine.Cursor())/float64(s.engine.Len()), false, cw)
	b.WriteString(progress.View())
	b.WriteString("\n\n")

	q := item.Question
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt))
	b.WriteString("\n")
	if q.IsMultiple() {
		b.WriteString(theme.Hint.Render("Select all that apply."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(s.choices.View(cw))

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return "\n" + layout.Center(width, b.String())
}

// renderFeedback renders the practice-mode verdict for the last answer.
func (s *SessionScreen) renderFeedback(width int) string {
	a := s.feedback
	q := a.Question
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	if a.Correct {
		b.WriteString(lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Incorrect"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Correct answer: %s", bank.Letters(q.Answer))))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(components.RenderGraded(q.Options, q.Answer, a.Selection, cw))

	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(cw).
			Foreground(theme.Secondary).
			Render("Explanation: " + q.Explanation))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return layout.Center(width, b.String())
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int, mode sess.Mode) string {
	note := "Your answers so far will be discarded."
	if mode == sess.ModeExam {
		note = "The exam will not be scored."
	}

	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this session?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(note))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, abandon"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderCountdown renders "HH:MM:SS (of HH:MM:SS)" coloured by urgency.
func renderCountdown(t *sess.Timer) string {
	text := fmt.Sprintf("%s (of %s)", sess.FormatClock(t.Remaining()), sess.FormatClock(t.Budget()))
	return lipgloss.NewStyle().
		Foreground(levelColor(t.Level())).
		Bold(t.Level() != sess.LevelNormal).
		Render(text)
}

func levelColor(l sess.Level) color.Color {
	switch l {
	case sess.LevelCritical:
		return theme.Error
	case sess.LevelWarning:
		return theme.Warning
	default:
		return theme.Secondary
	}
}

func renderScore(correct, answered int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render(fmt.Sprintf("✓ %d/%d", correct, answered))
}
