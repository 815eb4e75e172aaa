package home

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/router"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screen"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screens/customlength"
	sessionscreen "github.com/kelly1311/app-simulador-examen-az-104/internal/screens/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screens/stats"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screens/topics"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/components"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/layout"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/theme"
)

const banner = `   _   ____     _  ___  _  _
  /_\ |_  /___ / |/ _ \| || |
 / _ \ / /|___|| | (_) |_  _|
/_/ \_\/___|   |_|\___/  |_|`

// HomeScreen is the main menu.
type HomeScreen struct {
	menu     components.Menu
	selector *session.Selector
	budget   time.Duration
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the main menu over selector's bank.
func New(selector *session.Selector, deps sessionscreen.Deps) *HomeScreen {
	size := selector.Bank().Size()
	budget := deps.Budget
	if budget <= 0 {
		budget = session.ExamTimeLimit
	}

	exam := func(n int, title string) func() tea.Cmd {
		return func() tea.Cmd {
			return router.Push(sessionscreen.New(selector.SelectExam(n), session.ModeExam, title, deps))
		}
	}

	items := []components.MenuItem{
		{
			Label: "Practice by topic",
			Hint:  "immediate feedback",
			Action: func() tea.Cmd {
				return router.Push(topics.New(selector, deps))
			},
		},
		{
			Label:    fmt.Sprintf("Simulated exam (%d questions)", session.SimulatedExamLength),
			Hint:     "timed",
			Action:   exam(session.SimulatedExamLength, "Simulated Exam"),
			Disabled: size == 0,
		},
		{
			Label:    fmt.Sprintf("Full exam (%d questions)", session.FullExamLength),
			Hint:     "timed",
			Action:   exam(session.FullExamLength, "Full Exam"),
			Disabled: size == 0,
		},
		{
			Label: "Custom exam length",
			Action: func() tea.Cmd {
				return router.Push(customlength.New(selector, deps))
			},
			Disabled: size == 0,
		},
		{
			Label: "Bank statistics",
			Action: func() tea.Cmd {
				return router.Push(stats.New(selector.Bank()))
			},
		},
		{
			Label:  "Exit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{
		menu:     components.NewMenu(items),
		selector: selector,
		budget:   budget,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	b := h.selector.Bank()
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	var sections []string
	if !compact {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(banner))
	}
	sections = append(sections,
		theme.Title.Render(b.Title()),
		theme.Subtitle.Render(fmt.Sprintf(
			"%d questions • %d topics • %d min exam • %.0f%% to pass",
			b.Size(), len(b.Topics()), int(h.budget.Minutes()), session.PassThreshold,
		)),
		theme.Card.Render(h.menu.View()),
	)

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Main Menu"
}
