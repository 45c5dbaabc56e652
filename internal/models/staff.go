package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Staff is a restaurant staff account. Redemptions are attributed to the
// staff member who entered the bill.
type Staff struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string        `bson:"email" json:"email"`
	Name      string        `bson:"name,omitempty" json:"name,omitempty"`
	Role      string        `bson:"role" json:"role"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
