package session

import (
	"math"
	"slices"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
)

// IsCorrect compares a selection with the question's answer. Selections are
// treated as sets: order and repeated indices do not matter.
func IsCorrect(q bank.Question, selection []int) bool {
	got := normalize(selection)
	want := normalize(q.Answer)

	if q.Kind == bank.KindSingle {
		return len(got) == 1 && len(want) == 1 && got[0] == want[0]
	}
	return len(got) > 0 && slices.Equal(got, want)
}

// normalize returns a sorted, de-duplicated copy.
func normalize(indices []int) []int {
	if len(indices) == 0 {
		return nil
	}
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}

// TopicScore is the per-topic tally of a finished session.
type TopicScore struct {
	TopicID   string
	TopicName string
	Correct   int
	Total     int
}

// Percent returns the topic's score as a percentage, 0 for an empty topic.
func (t TopicScore) Percent() float64 {
	return percentage(t.Correct, t.Total)
}

// Passed reports whether the topic reaches the pass threshold.
func (t TopicScore) Passed() bool {
	return t.Percent() >= PassThreshold
}

// AggregateByTopic groups answers by source topic, in order of each topic's
// first appearance.
func AggregateByTopic(answers []AnsweredQuestion) []TopicScore {
	var out []TopicScore
	index := make(map[string]int)

	for _, a := range answers {
		key := a.TopicID
		if key == "" {
			key = a.TopicName
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, TopicScore{TopicID: a.TopicID, TopicName: a.TopicName})
		}
		out[i].Total++
		if a.Correct {
			out[i].Correct++
		}
	}
	return out
}

// percentage rounds correct/total*100 to one decimal place.
func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
