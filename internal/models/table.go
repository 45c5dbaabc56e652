package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Table is a physical table provisioned by staff. Token is the opaque
// identifier embedded in the printed QR code; the customer flow only ever
// reads tables, it never mutates them.
type Table struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Token     string        `bson:"token" json:"token"`
	Number    string        `bson:"number" json:"number"`
	Location  string        `bson:"location,omitempty" json:"location,omitempty"`
	Active    bool          `bson:"active" json:"active"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
