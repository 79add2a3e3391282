package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
)

// JoinRequest is created when a user asks to enter an approval-gated group.
// It transitions exactly once, pending -> approved or pending -> rejected.
type JoinRequest struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID     uuid.UUID               `gorm:"column:group_id;type:uuid;not null;index"`
	UserID      uuid.UUID               `gorm:"column:user_id;type:uuid;not null"`
	Message     *string                 `gorm:"column:message"`
	Status      enums.JoinRequestStatus `gorm:"column:status;not null;default:pending"`
	RequestedAt time.Time               `gorm:"column:requested_at;autoCreateTime"`
	ReviewedAt  *time.Time              `gorm:"column:reviewed_at"`
	ReviewedBy  *uuid.UUID              `gorm:"column:reviewed_by;type:uuid"`
}
