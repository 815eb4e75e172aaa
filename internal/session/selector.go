package session

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
)

// Item is a question scheduled into a session, tagged with its source topic
// so results can be grouped per topic.
type Item struct {
	Question  bank.Question
	TopicID   string
	TopicName string
}

// Selector builds randomized question sequences from a bank.
type Selector struct {
	bank *bank.Bank

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a Selector. A nil rng uses the auto-seeded global
// source; tests pass a seeded one for deterministic order.
func NewSelector(b *bank.Bank, rng *rand.Rand) *Selector {
	return &Selector{bank: b, rng: rng}
}

// NewSeededSelector creates a Selector with a PCG source seeded from seed.
func NewSeededSelector(b *bank.Bank, seed uint64) *Selector {
	return NewSelector(b, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Bank returns the underlying question bank.
func (s *Selector) Bank() *bank.Bank {
	return s.bank
}

// SelectTopic returns every question of the topic in random order.
func (s *Selector) SelectTopic(topicID string) ([]Item, error) {
	topic, ok := s.bank.Topic(topicID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, topicID)
	}

	items := make([]Item, len(topic.Questions))
	for i, q := range topic.Questions {
		items[i] = Item{Question: q, TopicID: topic.ID, TopicName: topic.Name}
	}
	s.shuffle(items)
	return items, nil
}

// SelectExam draws from all topics, shuffles the pool, and keeps the first
// min(count, poolSize) questions. A count of zero or less, or one larger
// than the pool, yields the whole shuffled pool.
func (s *Selector) SelectExam(count int) []Item {
	var pool []Item
	for _, topic := range s.bank.Topics() {
		for _, q := range topic.Questions {
			pool = append(pool, Item{Question: q, TopicID: topic.ID, TopicName: topic.Name})
		}
	}
	s.shuffle(pool)

	if count > 0 && count < len(pool) {
		pool = pool[:count]
	}
	return pool
}

// shuffle applies a uniform Fisher–Yates permutation in place.
func (s *Selector) shuffle(items []Item) {
	swap := func(i, j int) { items[i], items[j] = items[j], items[i] }

	if s.rng == nil {
		rand.Shuffle(len(items), swap)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(items), swap)
}
