package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the minimal catalog listing the group buying engine prices
// against. Catalog management beyond the group-order flag lives elsewhere.
type Product struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID          uuid.UUID      `gorm:"column:vendor_id;type:uuid;not null"`
	Title             string         `gorm:"column:title;not null"`
	PriceCents        int            `gorm:"column:price_cents;not null"`
	GroupOrderEnabled bool           `gorm:"column:group_order_enabled;not null;default:false"`
	IsActive          bool           `gorm:"column:is_active;not null;default:true"`
	DiscountTiers     []DiscountTier `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
