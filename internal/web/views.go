package web

import (
	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

type topicView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Weight    string `json:"weight,omitempty"`
	Questions int    `json:"questions"`
}

type bankView struct {
	Exam          string      `json:"exam"`
	Title         string      `json:"title"`
	Size          int         `json:"size"`
	Topics        []topicView `json:"topics"`
	ExamMinutes   int         `json:"exam_minutes"`
	PassThreshold float64     `json:"pass_threshold"`
	ExamLengths   []int       `json:"exam_lengths"`
}

// questionView never carries the answer key.
type questionView struct {
	ID        int      `json:"id"`
	Multiple  bool     `json:"multiple"`
	Prompt    string   `json:"prompt"`
	Options   []string `json:"options"`
	TopicID   string   `json:"topic_id"`
	TopicName string   `json:"topic_name"`
}

type sessionView struct {
	ID       string        `json:"id"`
	Mode     session.Mode  `json:"mode"`
	State    string        `json:"state"`
	Position int           `json:"position"`
	Total    int           `json:"total"`
	Score    int           `json:"score"`
	Answered int           `json:"answered"`
	Question *questionView `json:"question,omitempty"`

	Timed            bool   `json:"timed"`
	RemainingSeconds int    `json:"remaining_seconds,omitempty"`
	BudgetSeconds    int    `json:"budget_seconds,omitempty"`
	Clock            string `json:"clock,omitempty"`
	Urgency          string `json:"urgency,omitempty"`
	TimedOut         bool   `json:"timed_out"`
}

type answerView struct {
	Index          int      `json:"index"`
	QuestionID     int      `json:"question_id"`
	Prompt         string   `json:"prompt"`
	Options        []string `json:"options"`
	TopicName      string   `json:"topic_name"`
	Selection      []int    `json:"selection"`
	Answer         []int    `json:"answer"`
	YourLetters    string   `json:"your_letters"`
	CorrectLetters string   `json:"correct_letters"`
	Correct        bool     `json:"correct"`
	TimedOut       bool     `json:"timed_out"`
	Explanation    string   `json:"explanation,omitempty"`
}

type snapshotView struct {
	Position int    `json:"position"`
	Total    int    `json:"total"`
	Score    int    `json:"score"`
	State    string `json:"state"`
	TimedOut bool   `json:"timed_out"`

	// Feedback is only sent in practice mode.
	Feedback *answerView `json:"feedback,omitempty"`
}

type topicScoreView struct {
	TopicID    string  `json:"topic_id"`
	TopicName  string  `json:"topic_name"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

type resultView struct {
	SessionID       string           `json:"session_id"`
	Mode            session.Mode     `json:"mode"`
	Correct         int              `json:"correct"`
	Total           int              `json:"total"`
	Percentage      float64          `json:"percentage"`
	Passed          bool             `json:"passed"`
	Required        float64          `json:"required"`
	DurationSeconds int              `json:"duration_seconds"`
	TimedOut        bool             `json:"timed_out"`
	Unanswered      int              `json:"unanswered"`
	ByTopic         []topicScoreView `json:"by_topic"`
}

func newBankView(b *bank.Bank, budgetMinutes int) bankView {
	v := bankView{
		Exam:          b.Exam(),
		Title:         b.Title(),
		Size:          b.Size(),
		ExamMinutes:   budgetMinutes,
		PassThreshold: session.PassThreshold,
		ExamLengths:   []int{session.SimulatedExamLength, session.FullExamLength},
	}
	for _, t := range b.Topics() {
		v.Topics = append(v.Topics, topicView{
			ID:        t.ID,
			Name:      t.Name,
			Weight:    t.Weight,
			Questions: len(t.Questions),
		})
	}
	return v
}

func newSessionView(s *session.Session) sessionView {
	v := sessionView{
		ID:       s.ID(),
		Mode:     s.Mode(),
		State:    s.State().String(),
		Position: min(s.Cursor()+1, s.Len()),
		Total:    s.Len(),
		Score:    s.Score(),
		Answered: s.Cursor(),
		Timed:    s.Timed(),
		TimedOut: s.TimedOut(),
	}
	if item, ok := s.Current(); ok {
		q := item.Question
		qv := &questionView{
			ID:        q.ID,
			Multiple:  q.IsMultiple(),
			Prompt:    q.Prompt,
			Options:   q.Options,
			TopicID:   item.TopicID,
			TopicName: item.TopicName,
		}
		v.Question = qv
	}
	if t := s.Timer(); t != nil {
		v.RemainingSeconds = int(t.Remaining().Seconds())
		v.BudgetSeconds = int(t.Budget().Seconds())
		v.Clock = session.FormatClock(t.Remaining())
		v.Urgency = urgency(t.Level())
	}
	return v
}

func urgency(l session.Level) string {
	switch l {
	case session.LevelCritical:
		return "critical"
	case session.LevelWarning:
		return "warning"
	default:
		return "normal"
	}
}

func newAnswerView(i int, a session.AnsweredQuestion) answerView {
	q := a.Question
	your := bank.Letters(a.Selection)
	if len(a.Selection) == 0 {
		your = "—"
	}
	selection := a.Selection
	if selection == nil {
		selection = []int{}
	}
	return answerView{
		Index:          i,
		QuestionID:     q.ID,
		Prompt:         q.Prompt,
		Options:        q.Options,
		TopicName:      a.TopicName,
		Selection:      selection,
		Answer:         q.Answer,
		YourLetters:    your,
		CorrectLetters: bank.Letters(q.Answer),
		Correct:        a.Correct,
		TimedOut:       a.TimedOut,
		Explanation:    q.Explanation,
	}
}

func newResultView(r session.Result, answers []session.AnsweredQuestion) resultView {
	v := resultView{
		SessionID:       r.SessionID,
		Mode:            r.Mode,
		Correct:         r.Correct,
		Total:           r.Total,
		Percentage:      r.Percentage,
		Passed:          r.Passed,
		Required:        session.PassThreshold,
		DurationSeconds: int(r.Duration.Seconds()),
		TimedOut:        r.TimedOut,
		Unanswered:      session.Unanswered(answers),
		ByTopic:         []topicScoreView{},
	}
	for _, t := range r.ByTopic {
		v.ByTopic = append(v.ByTopic, topicScoreView{
			TopicID:    t.TopicID,
			TopicName:  t.TopicName,
			Correct:    t.Correct,
			Total:      t.Total,
			Percentage: t.Percent(),
			Passed:     t.Passed(),
		})
	}
	return v
}
