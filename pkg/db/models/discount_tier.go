package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscountTier is one rung of a product's volume discount ladder. Tier
// numbers form a contiguous 1..N sequence per product and members_required
// strictly increases with the tier number; the set is always replaced
// wholesale, never patched row by row.
type DiscountTier struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uniq_product_tier_number,priority:1"`
	TierNumber      int       `gorm:"column:tier_number;not null;uniqueIndex:uniq_product_tier_number,priority:2"`
	MembersRequired int       `gorm:"column:members_required;not null"`
	DiscountPercent float64   `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
