package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/types"
)

// GroupOrderDTO is the API-facing representation of a finalized order.
type GroupOrderDTO struct {
	ID                uuid.UUID            `json:"id"`
	GroupID           uuid.UUID            `json:"group_id"`
	ProductID         uuid.UUID            `json:"product_id"`
	MemberCount       int                  `json:"member_count"`
	AppliedTierNumber *int                 `json:"applied_tier_number,omitempty"`
	DiscountPercent   float64              `json:"discount_percent"`
	BasePriceCents    int                  `json:"base_price_cents"`
	UnitPriceCents    int                  `json:"unit_price_cents"`
	TotalPriceCents   int                  `json:"total_price_cents"`
	MemberSnapshot    types.MemberSnapshot `json:"member_snapshot"`
	CreatedAt         time.Time            `json:"created_at"`
}

// ToDTO converts the stored order row.
func ToDTO(order *models.GroupOrder) GroupOrderDTO {
	return GroupOrderDTO{
		ID:                order.ID,
		GroupID:           order.GroupID,
		ProductID:         order.ProductID,
		MemberCount:       order.MemberCount,
		AppliedTierNumber: order.AppliedTierNumber,
		DiscountPercent:   order.DiscountPercent,
		BasePriceCents:    order.BasePriceCents,
		UnitPriceCents:    order.UnitPriceCents,
		TotalPriceCents:   order.TotalPriceCents,
		MemberSnapshot:    order.MemberSnapshot,
		CreatedAt:         order.CreatedAt,
	}
}
