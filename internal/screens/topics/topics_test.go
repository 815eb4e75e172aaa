package topics

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/router"
	sessionscreen "github.com/kelly1311/app-simulador-examen-az-104/internal/screens/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

func TestTopicsScreen(t *testing.T) {
	b, err := bank.Default()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	s := New(session.NewSeededSelector(b, 3), sessionscreen.Deps{})

	first := b.Topics()[0]
	if !strings.Contains(s.View(100, 30), first.Name) {
		t.Errorf("expected %q in the topic list", first.Name)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if push.Screen.Title() != "Practice: "+first.Name {
		t.Errorf("title = %q", push.Screen.Title())
	}
}
