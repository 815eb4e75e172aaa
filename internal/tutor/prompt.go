package tutor

import (
	"fmt"
	"strings"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

const systemPrompt = `You are an experienced Microsoft Azure instructor coaching a candidate for the AZ-104 (Azure Administrator) exam. Explain answers precisely and briefly. Never change which options are correct.`

func buildUserMessage(a session.AnsweredQuestion) string {
	var b strings.Builder
	q := a.Question

	fmt.Fprintf(&b, "Topic: %s\n", a.TopicName)
	fmt.Fprintf(&b, "Question: %s\n", q.Prompt)
	if q.IsMultiple() {
		b.WriteString("(Select all that apply.)\n")
	}
	b.WriteString("\nOptions:\n")
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%s. %s\n", bank.Letter(i), opt)
	}

	fmt.Fprintf(&b, "\nCorrect answer: %s\n", bank.Letters(q.Answer))
	switch {
	case a.TimedOut:
		b.WriteString("Learner's answer: none, time ran out\n")
	case a.Correct:
		fmt.Fprintf(&b, "Learner's answer: %s (correct)\n", bank.Letters(a.Selection))
	default:
		fmt.Fprintf(&b, "Learner's answer: %s (incorrect)\n", bank.Letters(a.Selection))
	}

	if q.Explanation != "" {
		fmt.Fprintf(&b, "\nReference explanation: %s\n", q.Explanation)
	}

	b.WriteString(`
Instructions:
1. Explain why the correct option(s) are right, citing the Azure behaviour involved.
2. If the learner's answer was wrong, say what misconception it suggests. Otherwise leave "mistake" empty.
3. Give one rule of thumb for the exam.
4. Use plain text. No markdown.`)

	return b.String()
}
