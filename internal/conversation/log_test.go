package conversation

import (
	"fmt"
	"testing"
	"time"

	"guardian/pkg/models"
)

func TestAppendPreservesOrder(t *testing.T) {
	l := NewLog()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		l.Append(models.Turn{
			TurnID:    fmt.Sprintf("t%d", i),
			Role:      models.RoleOperator,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	turns := l.Turns()
	if len(turns) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(turns))
	}
	for i := 1; i < len(turns); i++ {
		if turns[i-1].Timestamp.After(turns[i].Timestamp) {
			t.Fatalf("turn %d timestamp after turn %d", i-1, i)
		}
		if turns[i-1].TurnID != fmt.Sprintf("t%d", i-1) {
			t.Fatalf("append order not preserved at %d", i-1)
		}
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	l := NewLog(models.Turn{TurnID: "seed", Role: models.RoleAssistant})
	turns := l.Turns()
	turns[0].Text = "mutated"
	if l.Turns()[0].Text == "mutated" {
		t.Fatalf("mutating the returned slice must not affect the log")
	}
}
