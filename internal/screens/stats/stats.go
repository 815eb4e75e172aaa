// Package stats shows how the question bank is distributed over topics.
package stats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screen"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/components"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/layout"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/theme"
)

// StatsScreen lists questions per topic.
type StatsScreen struct {
	bank *bank.Bank
}

var _ screen.Screen = (*StatsScreen)(nil)

// New creates the screen.
func New(b *bank.Bank) *StatsScreen {
	return &StatsScreen{bank: b}
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Bank Statistics"
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	topics := s.bank.Topics()
	total := s.bank.Size()
	cw := min(layout.ContentWidth(width), 70)

	nameWidth := 0
	for _, t := range topics {
		nameWidth = max(nameWidth, lipgloss.Width(t.Name))
	}

	var b strings.Builder
	for _, t := range topics {
		n := len(t.Questions)
		share := 0.0
		if total > 0 {
			share = float64(n) / float64(total)
		}
		label := t.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(t.Name))
		tail := fmt.Sprintf("%3d", n)
		if t.Weight != "" {
			tail += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  exam " + t.Weight)
		}
		bar := components.NewProgressBar(label, share, false, cw-lipgloss.Width(tail)-2)
		b.WriteString(bar.View() + "  " + tail + "\n")
	}

	multi := 0
	for _, t := range topics {
		for _, q := range t.Questions {
			if q.IsMultiple() {
				multi++
			}
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(s.bank.Title()),
		theme.Subtitle.Render(fmt.Sprintf("%s • %d questions in %d topics • %d multi-select",
			s.bank.Exam(), total, len(topics), multi)),
		"",
		b.String(),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
