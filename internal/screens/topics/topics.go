// Package topics lets the learner pick a topic to practice.
package topics

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/router"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screen"
	sessionscreen "github.com/kelly1311/app-simulador-examen-az-104/internal/screens/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/components"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/theme"
)

// TopicsScreen lists the bank's topics.
type TopicsScreen struct {
	menu   components.Menu
	errMsg string
}

var _ screen.Screen = (*TopicsScreen)(nil)

// New creates the topic picker.
func New(selector *session.Selector, deps sessionscreen.Deps) *TopicsScreen {
	s := &TopicsScreen{}

	var items []components.MenuItem
	for _, t := range selector.Bank().Topics() {
		id, name := t.ID, t.Name
		hint := fmt.Sprintf("%d questions", len(t.Questions))
		if t.Weight != "" {
			hint = t.Weight + " of exam • " + hint
		}
		items = append(items, components.MenuItem{
			Label:    name,
			Hint:     hint,
			Disabled: len(t.Questions) == 0,
			Action: func() tea.Cmd {
				picked, err := selector.SelectTopic(id)
				if err != nil {
					s.errMsg = err.Error()
					return nil
				}
				return router.Push(sessionscreen.New(picked, session.ModePractice, "Practice: "+name, deps))
			},
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *TopicsScreen) Init() tea.Cmd {
	return nil
}

func (s *TopicsScreen) Title() string {
	return "Practice by Topic"
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TopicsScreen) View(width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Choose a topic"),
		theme.Subtitle.Render("Questions are shuffled. Feedback after every answer."),
		"",
		theme.Card.Render(s.menu.View()),
	)
	if s.errMsg != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
