package tiers

import (
	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
)

// Resolution is the tier a group qualifies for at a given member count.
type Resolution struct {
	TierNumber      int
	MembersRequired int
	DiscountPercent float64
}

// Resolve picks the highest tier whose members_required the count satisfies.
// The second return is false when no tier qualifies (full price). Pure and
// deterministic; callers pass the ladder in any order.
func Resolve(memberCount int, ladder []models.DiscountTier) (Resolution, bool) {
	var best *models.DiscountTier
	for i := range ladder {
		tier := &ladder[i]
		if tier.MembersRequired > memberCount {
			continue
		}
		if best == nil || tier.MembersRequired > best.MembersRequired {
			best = tier
		}
	}
	if best == nil {
		return Resolution{}, false
	}
	return Resolution{
		TierNumber:      best.TierNumber,
		MembersRequired: best.MembersRequired,
		DiscountPercent: best.DiscountPercent,
	}, true
}
