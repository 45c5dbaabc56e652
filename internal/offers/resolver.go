// Package offers derives discount offers from feedback ratings. Offers are
// never stored: the percentage is recomputed on demand from the persisted
// rating and the current tier configuration.
package offers

import "savora-backend/internal/models"

// Resolve returns the discount percentage for a rating: the first active tier
// in list order whose minimum the rating meets. Ties and overlapping
// thresholds are resolved by position, first match wins. ok is false when no
// active tier matches (no offer).
//
// Pure and idempotent: the same rating against the same tier list always
// yields the same result. Redemption bookkeeping is the reporting layer's
// concern, not this package's.
func Resolve(rating models.Rating, tiers []models.OfferTier) (percent int, ok bool) {
	for _, tier := range tiers {
		if !tier.Active {
			continue
		}
		if rating >= tier.MinRating {
			return tier.Percent, true
		}
	}
	return 0, false
}
