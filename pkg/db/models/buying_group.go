package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
)

// BuyingGroup is the time-boxed pooling unit for one product. Lifecycle runs
// open -> finalized (order created) or open -> expired (deadline passed);
// both are terminal. Expiry is never stored, only computed against the
// deadline, so FinalizedAt/OrderID are the only lifecycle columns.
type BuyingGroup struct {
	ID                   uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string                `gorm:"column:name;not null"`
	Description          *string               `gorm:"column:description"`
	CreatorID            uuid.UUID             `gorm:"column:creator_id;type:uuid;not null"`
	ProductID            uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Visibility           enums.GroupVisibility `gorm:"column:visibility;not null"`
	JoinPolicy           enums.JoinPolicy      `gorm:"column:join_policy;not null;default:open"`
	AccessCode           *string               `gorm:"column:access_code;uniqueIndex"`
	MemberLimit          *int                  `gorm:"column:member_limit"`
	FinalizationDeadline *time.Time            `gorm:"column:finalization_deadline"`
	FinalizedAt          *time.Time            `gorm:"column:finalized_at"`
	OrderID              *uuid.UUID            `gorm:"column:order_id;type:uuid"`
	Members              []GroupMember         `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// IsFinalized reports whether the group has produced an order.
func (g *BuyingGroup) IsFinalized() bool {
	return g.FinalizedAt != nil
}

// IsExpired reports whether the deadline has passed for a group that was
// never finalized. Expired groups keep their stored columns untouched.
func (g *BuyingGroup) IsExpired(now time.Time) bool {
	if g.IsFinalized() || g.FinalizationDeadline == nil {
		return false
	}
	return !now.Before(*g.FinalizationDeadline)
}

// State computes the lifecycle state; nothing in storage records expiry.
func (g *BuyingGroup) State(now time.Time) enums.GroupState {
	switch {
	case g.IsFinalized():
		return enums.GroupStateFinalized
	case g.IsExpired(now):
		return enums.GroupStateExpired
	default:
		return enums.GroupStateOpen
	}
}
