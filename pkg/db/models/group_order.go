package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/types"
)

// GroupOrder is the immutable record produced by finalizing a buying group.
// The member snapshot and all price fields are frozen at finalization time;
// later membership churn on the group never touches this row.
type GroupOrder struct {
	ID                   uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID              uuid.UUID            `gorm:"column:group_id;type:uuid;not null;uniqueIndex"`
	ProductID            uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	MemberCount          int                  `gorm:"column:member_count;not null"`
	AppliedTierNumber    *int                 `gorm:"column:applied_tier_number"`
	DiscountPercent      float64              `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	BasePriceCents       int                  `gorm:"column:base_price_cents;not null"`
	UnitPriceCents       int                  `gorm:"column:unit_price_cents;not null"`
	TotalPriceCents      int                  `gorm:"column:total_price_cents;not null"`
	MemberSnapshot       types.MemberSnapshot `gorm:"column:member_snapshot;type:jsonb;not null"`
	FinalizedByID        uuid.UUID            `gorm:"column:finalized_by_id;type:uuid;not null"`
	CreatedAt            time.Time            `gorm:"column:created_at;autoCreateTime"`
}
