package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OfferTier maps a minimum rating to a discount percentage. Tiers are
// evaluated in Priority order (ascending) and the first active match wins,
// so overlapping thresholds are resolved by list position, not by value.
type OfferTier struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Label     string        `bson:"label" json:"label"`
	MinRating Rating        `bson:"min_rating" json:"min_rating"`
	Percent   int           `bson:"percent" json:"percent"`
	Active    bool          `bson:"active" json:"active"`
	Priority  int           `bson:"priority" json:"priority"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
