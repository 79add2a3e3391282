package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
)

// GroupMember is an immutable join record; rows are only ever inserted on a
// successful join and deleted on an explicit leave before finalization.
type GroupMember struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID   uuid.UUID          `gorm:"column:group_id;type:uuid;not null;uniqueIndex:uniq_group_member,priority:1"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uniq_group_member,priority:2"`
	JoinedVia enums.MemberSource `gorm:"column:joined_via;not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
