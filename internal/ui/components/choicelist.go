package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/ui/theme"
)

// ChoiceList is a lettered option picker. In single mode a letter or
// number key picks and submits at once; in multiple mode those keys toggle
// and Enter submits the checked set.
type ChoiceList struct {
	Options  []string
	Multiple bool
	Cursor   int
	checked  []bool
}

// NewChoiceList creates a picker over options.
func NewChoiceList(options []string, multiple bool) ChoiceList {
	return ChoiceList{
		Options:  options,
		Multiple: multiple,
		checked:  make([]bool, len(options)),
	}
}

// Update handles a key press. submit reports that the user confirmed the
// current Selection.
func (c ChoiceList) Update(msg tea.Msg) (_ ChoiceList, submit bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	key := kmsg.String()
	if i, ok := c.optionKey(key); ok {
		c.Cursor = i
		if !c.Multiple {
			return c, true
		}
		c.checked[i] = !c.checked[i]
		return c, false
	}

	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		if c.Multiple && c.Cursor < len(c.checked) {
			c.checked[c.Cursor] = !c.checked[c.Cursor]
		}
	case "enter":
		return c, len(c.Selection()) > 0
	}
	return c, false
}

// optionKey maps "a".."z" and "1".."9" to an option index.
func (c ChoiceList) optionKey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	var i int
	switch ch := key[0]; {
	case ch >= 'a' && ch <= 'z':
		i = int(ch - 'a')
	case ch >= 'A' && ch <= 'Z':
		i = int(ch - 'A')
	case ch >= '1' && ch <= '9':
		i = int(ch - '1')
	default:
		return 0, false
	}
	return i, i < len(c.Options)
}

// Selection returns the chosen option indices in ascending order. In single
// mode it is the option under the cursor.
func (c ChoiceList) Selection() []int {
	if len(c.Options) == 0 {
		return nil
	}
	if !c.Multiple {
		return []int{c.Cursor}
	}
	var out []int
	for i, on := range c.checked {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// Checked reports whether option i is toggled on.
func (c ChoiceList) Checked(i int) bool {
	return i >= 0 && i < len(c.checked) && c.checked[i]
}

// View renders the options with the cursor and, in multiple mode, checkboxes.
func (c ChoiceList) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		box := ""
		if c.Multiple {
			box = "[ ] "
			if c.checked[i] {
				box = "[x] "
			}
		}
		line := fmt.Sprintf("%s%s%s) %s", prefix, box, bank.Letter(i), opt)

		style := lipgloss.NewStyle().Width(width).Foreground(theme.Text)
		switch {
		case i == c.Cursor:
			style = style.Foreground(theme.Primary).Bold(true)
		case c.checked[i]:
			style = style.Foreground(theme.Secondary)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderGraded renders options after grading: correct options in green,
// wrongly chosen ones in red, everything else dimmed.
func RenderGraded(options []string, answer, selection []int, width int) string {
	var b strings.Builder
	for i, opt := range options {
		mark := "  "
		if slices.Contains(selection, i) {
			mark = "» "
		}
		line := fmt.Sprintf("%s%s) %s", mark, bank.Letter(i), opt)

		style := lipgloss.NewStyle().Width(width)
		switch {
		case slices.Contains(answer, i):
			style = style.Foreground(theme.Success).Bold(true)
		case slices.Contains(selection, i):
			style = style.Foreground(theme.Error).Bold(true)
		default:
			style = style.Foreground(theme.TextDim)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
