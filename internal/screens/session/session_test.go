package session

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/router"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/screen"
	sess "github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testItems() []sess.Item {
	return []sess.Item{
		{
			Question: bank.Question{
				ID: 1, Kind: bank.KindSingle,
				Prompt:      "Which tier keeps blobs offline?",
				Options:     []string{"Hot", "Archive", "Cool", "Premium"},
				Answer:      []int{1},
				Explanation: "Archive blobs must be rehydrated.",
			},
			TopicID: "storage", TopicName: "Storage",
		},
		{
			Question: bank.Question{
				ID: 2, Kind: bank.KindMultiple,
				Prompt:  "Which lock levels block deletion?",
				Options: []string{"CanNotDelete", "Reader", "ReadOnly", "Tag"},
				Answer:  []int{0, 2},
			},
			TopicID: "governance", TopicName: "Governance",
		},
	}
}

func testSessionScreen(mode sess.Mode) (*SessionScreen, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	s := New(testItems(), mode, "Test run", Deps{Clock: clock.Now})
	return s, clock
}

func update(t *testing.T, s screen.Screen, msg tea.Msg) (*SessionScreen, tea.Cmd) {
	t.Helper()
	next, cmd := s.Update(msg)
	ss, ok := next.(*SessionScreen)
	if !ok {
		t.Fatalf("expected *SessionScreen, got %T", next)
	}
	return ss, cmd
}

func TestSessionScreen_Title(t *testing.T) {
	s, _ := testSessionScreen(sess.ModePractice)
	if s.Title() != "Test run" {
		t.Errorf("Title = %q, want %q", s.Title(), "Test run")
	}
}

func TestSessionScreen_PracticeFeedbackFlow(t *testing.T) {
	s, _ := testSessionScreen(sess.ModePractice)

	s, _ = update(t, s, keyPress('b'))
	if s.feedback == nil || !s.feedback.Correct {
		t.Fatal("expected correct feedback after picking B")
	}
	if !strings.Contains(s.View(100, 30), "Correct!") {
		t.Error("expected feedback view to say Correct!")
	}

	s, _ = update(t, s, keyPress('x'))
	if s.feedback != nil {
		t.Fatal("expected feedback dismissed")
	}
	if !s.choices.Multiple {
		t.Fatal("expected second question to be multi-select")
	}
	if v := s.View(100, 30); !strings.Contains(v, "Select all that apply.") || strings.Contains(v, "correct)") {
		t.Error("expected a multi-select hint without the answer count")
	}

	s, _ = update(t, s, keyPress('a'))
	s, _ = update(t, s, keyPress('b'))
	s, _ = update(t, s, specialKey(tea.KeyEnter))
	if s.feedback == nil || s.feedback.Correct {
		t.Fatal("expected incorrect feedback for A+B")
	}
	if !strings.Contains(s.View(100, 30), "Correct answer: A, C") {
		t.Error("expected correct letters in feedback")
	}

	s, cmd := update(t, s, keyPress(' '))
	if cmd == nil {
		t.Fatal("expected end command after last feedback")
	}
	if _, ok := cmd().(sessionEndMsg); !ok {
		t.Fatal("expected sessionEndMsg")
	}

	_, cmd = update(t, s, sessionEndMsg{})
	if cmd == nil {
		t.Fatal("expected navigation to results")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg to the results screen")
	}
}

func TestSessionScreen_ExamDefersFeedback(t *testing.T) {
	s, _ := testSessionScreen(sess.ModeExam)

	s, _ = update(t, s, keyPress('a'))
	if s.feedback != nil {
		t.Error("exam mode should not show feedback")
	}
	if s.engine.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", s.engine.Cursor())
	}

	s, _ = update(t, s, keyPress('a'))
	s, _ = update(t, s, keyPress('c'))
	_, cmd := update(t, s, specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected end command after the last answer")
	}
	if _, ok := cmd().(sessionEndMsg); !ok {
		t.Error("expected sessionEndMsg")
	}
	if s.engine.Score() != 1 {
		t.Errorf("score = %d, want 1", s.engine.Score())
	}
}

func TestSessionScreen_MultipleNeedsSelection(t *testing.T) {
	s, _ := testSessionScreen(sess.ModeExam)
	s, _ = update(t, s, keyPress('a'))

	s, cmd := update(t, s, specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for an empty multi-select")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
	if s.engine.Cursor() != 1 {
		t.Error("empty selection must not advance")
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s, _ := testSessionScreen(sess.ModePractice)

	s, _ = update(t, s, specialKey(tea.KeyEscape))
	if !s.quitting {
		t.Fatal("expected quit confirmation dialog")
	}
	if !strings.Contains(s.View(100, 30), "Leave this session?") {
		t.Error("expected quit dialog view")
	}

	s, _ = update(t, s, keyPress('n'))
	if s.quitting {
		t.Error("expected quit confirmation to be dismissed")
	}
}

func TestSessionScreen_QuitConfirm_Yes(t *testing.T) {
	s, _ := testSessionScreen(sess.ModeExam)

	s, _ = update(t, s, specialKey(tea.KeyEscape))
	_, cmd := update(t, s, keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after quit confirmation")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg")
	}
}

func TestSessionScreen_TimerTickExpires(t *testing.T) {
	s, clock := testSessionScreen(sess.ModeExam)
	s, _ = update(t, s, keyPress('b'))

	s, cmd := update(t, s, timerTickMsg(clock.Now()))
	if cmd == nil {
		t.Fatal("expected the tick to reschedule")
	}
	if s.engine.State() != sess.StateInProgress {
		t.Fatal("exam should still be running")
	}

	clock.Advance(sess.ExamTimeLimit)
	s, cmd = update(t, s, timerTickMsg(clock.Now()))
	if cmd == nil {
		t.Fatal("expected end command on expiry")
	}
	if _, ok := cmd().(sessionEndMsg); !ok {
		t.Error("expected sessionEndMsg")
	}
	if !s.engine.TimedOut() {
		t.Error("expected the engine to be timed out")
	}
	answers := s.engine.Answers()
	if len(answers) != 2 || !answers[1].TimedOut {
		t.Errorf("expected the unanswered question to be recorded as timed out, got %+v", answers)
	}
}

func TestSessionScreen_SubmitAfterDeadline(t *testing.T) {
	s, clock := testSessionScreen(sess.ModeExam)
	clock.Advance(sess.ExamTimeLimit + time.Second)

	s, cmd := update(t, s, keyPress('b'))
	if cmd == nil {
		t.Fatal("expected end command")
	}
	if s.engine.Score() != 0 || !s.engine.TimedOut() {
		t.Error("a late answer must not be graded")
	}
}

func TestSessionScreen_Status(t *testing.T) {
	s, clock := testSessionScreen(sess.ModeExam)
	if !strings.Contains(s.Status(), "02:00:00 (of 02:00:00)") {
		t.Errorf("unexpected countdown %q", s.Status())
	}
	clock.Advance(115 * time.Minute)
	if !strings.Contains(s.Status(), "00:05:00") {
		t.Errorf("unexpected countdown %q", s.Status())
	}

	p, _ := testSessionScreen(sess.ModePractice)
	if !strings.Contains(p.Status(), "0/0") {
		t.Errorf("unexpected practice status %q", p.Status())
	}
}

func TestSessionScreen_EmptySessionEndsOnInit(t *testing.T) {
	s := New(nil, sess.ModeExam, "Empty", Deps{})
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected end command")
	}
	if _, ok := cmd().(sessionEndMsg); !ok {
		t.Error("expected sessionEndMsg")
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s, _ := testSessionScreen(sess.ModePractice)
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
	if !s.HandlesEsc() {
		t.Error("session screen should own Esc")
	}
}

func TestSessionScreen_QuestionView(t *testing.T) {
	s, _ := testSessionScreen(sess.ModeExam)
	view := s.View(100, 30)
	for _, want := range []string{"Question 1 of 2", "Storage", "B) Archive"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
