package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Expense is one ledger entry. Email ties it to a user by plain string match.
type Expense struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email       string        `bson:"email" json:"email"`
	Category    string        `bson:"category" json:"category"`
	Amount      float64       `bson:"amount" json:"amount"`
	Date        string        `bson:"date" json:"date"`
	Description string        `bson:"description,omitempty" json:"description"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ExpenseChanges are the mutable fields of an expense. Nil fields are left
// as stored.
type ExpenseChanges struct {
	Category    *string
	Amount      *float64
	Date        *string
	Description *string
}

// UpdateOutcome is the raw result of an update, passed through to clients.
type UpdateOutcome struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

// DeleteOutcome is the raw result of a delete, passed through to clients.
type DeleteOutcome struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
