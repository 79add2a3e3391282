package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
)

// GroupInvite is a tokenized invitation to a group. It transitions exactly
// once and cannot be accepted after ExpiresAt.
type GroupInvite struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID      uuid.UUID          `gorm:"column:group_id;type:uuid;not null;index"`
	InviterID    uuid.UUID          `gorm:"column:inviter_id;type:uuid;not null"`
	InvitedEmail string             `gorm:"column:invited_email;not null"`
	Token        string             `gorm:"column:token;not null;uniqueIndex"`
	Status       enums.InviteStatus `gorm:"column:status;not null;default:pending"`
	ExpiresAt    time.Time          `gorm:"column:expires_at;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
