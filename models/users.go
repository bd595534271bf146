package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a registered end user. Password holds a bcrypt hash and is never
// written to JSON.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName  string        `bson:"fullname" json:"fullname"`
	Gender    string        `bson:"gender" json:"gender"`
	Mobile    string        `bson:"mobile" json:"mobile"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password" json:"-"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// MinMobileLength is the shortest mobile number a user may register with.
const MinMobileLength = 10
