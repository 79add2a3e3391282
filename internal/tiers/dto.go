package tiers

import (
	"github.com/google/uuid"
)

// TierInput is one rung of the requested discount ladder.
type TierInput struct {
	TierNumber      int     `json:"tier_number" validate:"required,min=1"`
	MembersRequired int     `json:"members_required" validate:"required"`
	DiscountPercent float64 `json:"discount_percent" validate:"required"`
}

// TierDTO is the API-facing representation of a stored tier.
type TierDTO struct {
	TierNumber      int     `json:"tier_number"`
	MembersRequired int     `json:"members_required"`
	DiscountPercent float64 `json:"discount_percent"`
}

// BulkFailure describes why one product was skipped during a bulk run.
type BulkFailure struct {
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
}

// BulkResult reports the per-product outcome of a bulk apply or undo.
type BulkResult struct {
	Successful []uuid.UUID   `json:"successful"`
	Failed     []BulkFailure `json:"failed"`
}
