package finalization

import (
	"github.com/shopspring/decimal"

	"github.com/huddlebuy/huddlebuy-backend/internal/tiers"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
)

// Pricing is the frozen price outcome of a finalization.
type Pricing struct {
	AppliedTierNumber *int
	DiscountPercent   float64
	BasePriceCents    int
	UnitPriceCents    int
	TotalPriceCents   int
}

var oneHundred = decimal.NewFromInt(100)

// ComputePricing resolves the ladder at the member count and prices the
// order. Unit price is rounded half-up to whole cents; the total is the
// rounded unit price times the member count, so members always pay the
// charged unit price exactly. No qualifying tier means full price.
func ComputePricing(basePriceCents, memberCount int, ladder []models.DiscountTier) Pricing {
	pricing := Pricing{
		BasePriceCents:  basePriceCents,
		UnitPriceCents:  basePriceCents,
		TotalPriceCents: basePriceCents * memberCount,
	}

	resolution, ok := tiers.Resolve(memberCount, ladder)
	if !ok {
		return pricing
	}

	tierNumber := resolution.TierNumber
	pricing.AppliedTierNumber = &tierNumber
	pricing.DiscountPercent = resolution.DiscountPercent

	base := decimal.NewFromInt(int64(basePriceCents))
	factor := oneHundred.Sub(decimal.NewFromFloat(resolution.DiscountPercent)).Div(oneHundred)
	unit := base.Mul(factor).Round(0)

	pricing.UnitPriceCents = int(unit.IntPart())
	pricing.TotalPriceCents = pricing.UnitPriceCents * memberCount
	return pricing
}
