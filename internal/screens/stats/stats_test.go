package stats

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
)

func TestStatsScreen_View(t *testing.T) {
	b, err := bank.Default()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	view := New(b).View(100, 30)

	if !strings.Contains(view, fmt.Sprintf("%d questions in %d topics", b.Size(), len(b.Topics()))) {
		t.Error("expected totals line")
	}
	for _, topic := range b.Topics() {
		if !strings.Contains(view, topic.Name) {
			t.Errorf("view missing topic %q", topic.Name)
		}
	}
}
