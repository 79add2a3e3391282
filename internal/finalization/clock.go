package finalization

import (
	"time"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
)

// DeadlineState classifies a group's position relative to its deadline.
type DeadlineState int

const (
	// DeadlineNone means the group has no deadline and never expires.
	DeadlineNone DeadlineState = iota
	// DeadlineRunning means time remains before the deadline.
	DeadlineRunning
	// DeadlinePassed means the deadline has elapsed.
	DeadlinePassed
)

// TimeRemaining reports how long the group has left before its deadline.
// Pure; the remaining duration is only meaningful for DeadlineRunning.
func TimeRemaining(group *models.BuyingGroup, now time.Time) (time.Duration, DeadlineState) {
	if group.FinalizationDeadline == nil {
		return 0, DeadlineNone
	}
	remaining := group.FinalizationDeadline.Sub(now)
	if remaining <= 0 {
		return 0, DeadlinePassed
	}
	return remaining, DeadlineRunning
}
