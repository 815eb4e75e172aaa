package summary

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/router"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screen"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screens/review"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/tutor"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/components"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/layout"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/theme"
)

// SummaryScreen displays the results of a finished session.
type SummaryScreen struct {
	result  session.Result
	answers []session.AnsweredQuestion
	tutor   *tutor.Service
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscHandler = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. t may be nil.
func New(result session.Result, answers []session.AnsweredQuestion, t *tutor.Service) *SummaryScreen {
	return &SummaryScreen{result: result, answers: answers, tutor: t}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

// HandlesEsc sends Esc home rather than back into a finished session.
func (s *SummaryScreen) HandlesEsc() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if len(s.answers) > 0 {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Review answers"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Menu"},
		layout.KeyHint{Key: "Esc", Description: "Menu"},
	)
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "r", "R":
			if len(s.answers) > 0 {
				return s, router.Push(review.New(s.answers, s.tutor))
			}
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	var b strings.Builder
	b.WriteString("\n")

	if res.TimedOut {
		b.WriteString(center(width, theme.Warning, true, "Time is up! The exam was submitted automatically."))
		b.WriteString("\n\n")
	}

	if res.Mode == session.ModeExam {
		if res.Passed {
			b.WriteString(center(width, theme.Success, true, "PASSED"))
		} else {
			b.WriteString(center(width, theme.Error, true, "NOT PASSED"))
		}
	} else {
		b.WriteString(center(width, theme.Primary, true, "Practice complete"))
	}
	b.WriteString("\n\n")

	b.WriteString(center(width, theme.Text, false, fmt.Sprintf(
		"Correct: %d of %d        Score: %.1f%%        Required: %.0f%%",
		res.Correct, res.Total, res.Percentage, session.PassThreshold)))
	b.WriteString("\n")

	timeLine := fmt.Sprintf("Total time: %s", FormatDuration(res.Duration))
	if n := session.Unanswered(s.answers); n > 0 {
		timeLine += fmt.Sprintf("        Unanswered: %d", n)
	}
	b.WriteString(center(width, theme.TextDim, false, timeLine))
	b.WriteString("\n\n")

	if len(res.ByTopic) > 0 {
		b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.TextDim).Render("By topic")))
		b.WriteString("\n")
		b.WriteString(layout.Center(width, layout.Divider(width)))
		b.WriteString("\n\n")
		b.WriteString(layout.Center(width, renderTopics(res.ByTopic, min(width-8, 60))))
	}

	return b.String()
}

// renderTopics renders one bar per topic, green at or above the pass mark.
func renderTopics(scores []session.TopicScore, width int) string {
	nameWidth := 0
	for _, ts := range scores {
		nameWidth = max(nameWidth, lipgloss.Width(ts.TopicName))
	}

	var b strings.Builder
	for _, ts := range scores {
		stat := fmt.Sprintf("%d/%d (%.1f%%)", ts.Correct, ts.Total, ts.Percent())
		label := ts.TopicName + strings.Repeat(" ", nameWidth-lipgloss.Width(ts.TopicName))

		fill := theme.Error
		if ts.Passed() {
			fill = theme.Success
		}
		bar := components.NewProgressBar(label, ts.Percent()/100, false, width-lipgloss.Width(stat)-2)
		bar.Fill = fill

		b.WriteString(bar.View())
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(fill).Render(stat))
		b.WriteString("\n")
	}
	return b.String()
}

func center(width int, fg color.Color, bold bool, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Bold(bold).
		Render(text)
}

// FormatDuration renders d as H:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
