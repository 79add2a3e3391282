package product

import (
	"time"

	"github.com/google/uuid"
)

// ProductDTO is the API-facing representation of a product.
type ProductDTO struct {
	ID                uuid.UUID         `json:"id"`
	VendorID          uuid.UUID         `json:"vendor_id"`
	Title             string            `json:"title"`
	PriceCents        int               `json:"price_cents"`
	GroupOrderEnabled bool              `json:"group_order_enabled"`
	IsActive          bool              `json:"is_active"`
	DiscountTiers     []DiscountTierDTO `json:"discount_tiers"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// DiscountTierDTO is one rung of the discount ladder as returned to clients.
type DiscountTierDTO struct {
	TierNumber      int     `json:"tier_number"`
	MembersRequired int     `json:"members_required"`
	DiscountPercent float64 `json:"discount_percent"`
}
