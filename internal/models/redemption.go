package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RedemptionClaim ties a merchant bill identifier to the feedback whose offer
// it consumed. BillID is stored normalized (trimmed, upper-cased) and carries
// a unique index, which is the real one-bill-one-redemption guarantee; any
// pre-check lookup is advisory only. Claims are never mutated or deleted.
type RedemptionClaim struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	BillID     string        `bson:"bill_id" json:"bill_id"`
	FeedbackID bson.ObjectID `bson:"feedback_id" json:"feedback_id"`
	StaffID    bson.ObjectID `bson:"staff_id" json:"staff_id"`
	Percent    int           `bson:"percent" json:"percent"`
	RedeemedAt time.Time     `bson:"redeemed_at" json:"redeemed_at"`
}
