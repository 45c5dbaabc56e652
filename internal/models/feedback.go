package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Rating is one of five ordered sentiment levels, 1 (worst) to 5 (best).
type Rating int

const (
	RatingAngry     Rating = 1
	RatingUnhappy   Rating = 2
	RatingNeutral   Rating = 3
	RatingHappy     Rating = 4
	RatingDelighted Rating = 5
)

func (r Rating) Valid() bool {
	return r >= RatingAngry && r <= RatingDelighted
}

// Negative reports whether the rating routes through the negative detail
// branch. These are the only ratings that require a bill image.
func (r Rating) Negative() bool {
	return r <= RatingUnhappy
}

func (r Rating) Top() bool {
	return r == RatingDelighted
}

type Feedback struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	TableID      bson.ObjectID `bson:"table_id" json:"table_id"`
	Rating       Rating        `bson:"rating" json:"rating"`
	Email        string        `bson:"email,omitempty" json:"email,omitempty"`
	Notes        string        `bson:"notes,omitempty" json:"notes,omitempty"`
	Categories   []string      `bson:"categories,omitempty" json:"categories,omitempty"`
	BillImageURL string        `bson:"bill_image_url,omitempty" json:"bill_image_url,omitempty"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
}
