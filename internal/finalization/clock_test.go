package finalization

import (
	"testing"
	"time"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
)

func TestTimeRemainingNoDeadline(t *testing.T) {
	group := &models.BuyingGroup{}
	remaining, state := TimeRemaining(group, time.Now())
	if state != DeadlineNone {
		t.Fatalf("expected DeadlineNone, got %d", state)
	}
	if remaining != 0 {
		t.Fatalf("expected zero remaining, got %s", remaining)
	}
}

func TestTimeRemainingRunning(t *testing.T) {
	now := time.Now()
	deadline := now.Add(90 * time.Minute)
	group := &models.BuyingGroup{FinalizationDeadline: &deadline}

	remaining, state := TimeRemaining(group, now)
	if state != DeadlineRunning {
		t.Fatalf("expected DeadlineRunning, got %d", state)
	}
	if remaining != 90*time.Minute {
		t.Fatalf("expected 90m remaining, got %s", remaining)
	}
}

func TestTimeRemainingPassed(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Second)
	group := &models.BuyingGroup{FinalizationDeadline: &past}
	remaining, state := TimeRemaining(group, now)
	if state != DeadlinePassed {
		t.Fatalf("expected DeadlinePassed, got %d", state)
	}
	if remaining != 0 {
		t.Fatalf("expected zero remaining, got %s", remaining)
	}

	// Exactly at the deadline counts as passed.
	atDeadline := &models.BuyingGroup{FinalizationDeadline: &now}
	if _, state := TimeRemaining(atDeadline, now); state != DeadlinePassed {
		t.Fatalf("expected DeadlinePassed at the exact deadline, got %d", state)
	}
}
