package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/hey-kuldeep/expense-xtrac/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ExpenseRepository struct {
	collection *mongo.Collection
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	ts := now()
	expense.ID = bson.NewObjectID()
	expense.CreatedAt = ts
	expense.UpdatedAt = ts

	if _, err := r.collection.InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("error creating expense: %w", err)
	}
	return nil
}

// ListByEmail returns every expense recorded under email in natural order.
// The result is never nil.
func (r *ExpenseRepository) ListByEmail(ctx context.Context, email string) ([]models.Expense, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("error fetching expenses: %w", err)
	}
	defer cursor.Close(ctx)

	expenses := []models.Expense{}
	for cursor.Next(ctx) {
		var expense models.Expense
		if err := cursor.Decode(&expense); err != nil {
			return nil, fmt.Errorf("error decoding expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return expenses, nil
}

// FindByID returns the expense with id, or nil when there is none.
func (r *ExpenseRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Expense, error) {
	var expense models.Expense
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&expense)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching expense %s: %w", id.Hex(), err)
	}
	return &expense, nil
}

// Update sets the mutable fields of the expense with id. A missing id is
// reported through the outcome counts, not as an error.
func (r *ExpenseRepository) Update(ctx context.Context, id bson.ObjectID, changes models.ExpenseChanges) (models.UpdateOutcome, error) {
	set := bson.M{"updatedAt": now()}
	if changes.Category != nil {
		set["category"] = *changes.Category
	}
	if changes.Amount != nil {
		set["amount"] = *changes.Amount
	}
	if changes.Date != nil {
		set["date"] = *changes.Date
	}
	if changes.Description != nil {
		set["description"] = *changes.Description
	}
	update := bson.M{"$set": set}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return models.UpdateOutcome{}, fmt.Errorf("error updating expense %s: %w", id.Hex(), err)
	}
	return models.UpdateOutcome{
		Acknowledged:  res.Acknowledged,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id bson.ObjectID) (models.DeleteOutcome, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteOutcome{}, fmt.Errorf("error deleting expense %s: %w", id.Hex(), err)
	}
	return models.DeleteOutcome{
		Acknowledged: res.Acknowledged,
		DeletedCount: res.DeletedCount,
	}, nil
}
