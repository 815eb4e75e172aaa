// Package customlength asks for the number of questions of a custom exam.
package customlength

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/router"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screen"
	sessionscreen "github.com/kelly1311/app-simulador-examen-az-104/internal/screens/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/components"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/layout"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/theme"
)

// CustomLengthScreen reads a question count and starts an exam.
type CustomLengthScreen struct {
	selector *session.Selector
	deps     sessionscreen.Deps
	input    components.TextInput
	errMsg   string
}

var _ screen.Screen = (*CustomLengthScreen)(nil)
var _ screen.KeyHintProvider = (*CustomLengthScreen)(nil)

// New creates the prompt.
func New(selector *session.Selector, deps sessionscreen.Deps) *CustomLengthScreen {
	return &CustomLengthScreen{
		selector: selector,
		deps:     deps,
		input:    components.NewTextInput(fmt.Sprintf("1-%d", selector.Bank().Size()), true, 4),
	}
}

func (c *CustomLengthScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *CustomLengthScreen) Title() string {
	return "Custom Exam"
}

func (c *CustomLengthScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "0-9", Description: "Count"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *CustomLengthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return c, c.submit()
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		c.errMsg = ""
	}
	return c, cmd
}

func (c *CustomLengthScreen) submit() tea.Cmd {
	limit := c.selector.Bank().Size()
	n, err := c.input.NumericValue()
	if err != nil || n < 1 || n > limit {
		c.input.Submit(false)
		c.errMsg = fmt.Sprintf("Enter a number between 1 and %d.", limit)
		return nil
	}
	c.input.Submit(true)
	title := fmt.Sprintf("Custom Exam (%d)", n)
	next := sessionscreen.New(c.selector.SelectExam(n), session.ModeExam, title, c.deps)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (c *CustomLengthScreen) View(width, height int) string {
	lines := []string{
		theme.Title.Render("How many questions?"),
		theme.Subtitle.Render(fmt.Sprintf("The bank has %d questions. Timed like the real exam.", c.selector.Bank().Size())),
		"",
		theme.Card.Render("Questions: " + c.input.View()),
	}
	if c.errMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render(c.errMsg))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
