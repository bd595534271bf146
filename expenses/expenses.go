// Package expenses implements the expense ledger over the usersdatas
// collection. Records are scoped by a plain email string; update and delete
// address records by id alone and do not check who owns them.
package expenses

import (
	"context"
	"strings"

	"github.com/hey-kuldeep/expense-xtrac/apperr"
	"github.com/hey-kuldeep/expense-xtrac/events"
	"github.com/hey-kuldeep/expense-xtrac/logger"
	"github.com/hey-kuldeep/expense-xtrac/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// Store is the persistence the ledger needs. *mongodb.ExpenseRepository
// satisfies it.
type Store interface {
	Create(ctx context.Context, expense *models.Expense) error
	ListByEmail(ctx context.Context, email string) ([]models.Expense, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Expense, error)
	Update(ctx context.Context, id bson.ObjectID, changes models.ExpenseChanges) (models.UpdateOutcome, error)
	Delete(ctx context.Context, id bson.ObjectID) (models.DeleteOutcome, error)
}

type Ledger struct {
	store     Store
	publisher events.Publisher
}

func NewLedger(store Store, publisher events.Publisher) *Ledger {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Ledger{store: store, publisher: publisher}
}

type CreateInput struct {
	Email       string
	Category    string
	Amount      *float64
	Date        string
	Description string
}

func (in CreateInput) validate() error {
	var missing []string
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if in.Amount == nil {
		missing = append(missing, "amount")
	}
	if in.Date == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return apperr.New(apperr.Invalid, "Missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// Create stores one expense exactly as given.
func (l *Ledger) Create(ctx context.Context, in CreateInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Email:       in.Email,
		Category:    in.Category,
		Amount:      *in.Amount,
		Date:        in.Date,
		Description: in.Description,
	}
	if err := l.store.Create(ctx, expense); err != nil {
		return nil, err
	}

	logger.Get().Info("expense created",
		zap.String("expense_id", expense.ID.Hex()),
		zap.String("email", expense.Email))
	l.publisher.Publish(ctx, events.New(events.ExpenseCreated, expense.Email, expense.ID.Hex(), expense))
	return expense, nil
}

// List returns every expense recorded under email. No match yields an empty,
// non-nil slice.
func (l *Ledger) List(ctx context.Context, email string) ([]models.Expense, error) {
	expenses, err := l.store.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

type UpdateInput struct {
	ID          string
	Category    *string
	Amount      *float64
	Date        *string
	Description *string
}

// Update overwrites the supplied fields of the expense with the given id and
// reports the raw match counts. An unknown id is not an error.
func (l *Ledger) Update(ctx context.Context, in UpdateInput) (models.UpdateOutcome, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return models.UpdateOutcome{}, err
	}

	outcome, err := l.store.Update(ctx, id, models.ExpenseChanges{
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
	})
	if err != nil {
		return models.UpdateOutcome{}, err
	}

	logger.Get().Info("expense updated",
		zap.String("expense_id", in.ID),
		zap.Int64("matched", outcome.MatchedCount),
		zap.Int64("modified", outcome.ModifiedCount))
	if outcome.MatchedCount > 0 {
		l.publisher.Publish(ctx, events.New(events.ExpenseUpdated, "", in.ID, in))
	}
	return outcome, nil
}

// Delete removes the expense with the given id. An unknown id yields a zero
// deleted count, not an error.
func (l *Ledger) Delete(ctx context.Context, rawID string) (models.DeleteOutcome, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.DeleteOutcome{}, err
	}

	existing, err := l.store.FindByID(ctx, id)
	if err != nil {
		return models.DeleteOutcome{}, err
	}

	outcome, err := l.store.Delete(ctx, id)
	if err != nil {
		return models.DeleteOutcome{}, err
	}

	logger.Get().Info("expense deleted",
		zap.String("expense_id", rawID),
		zap.Int64("deleted", outcome.DeletedCount))
	if outcome.DeletedCount > 0 && existing != nil {
		l.publisher.Publish(ctx, events.New(events.ExpenseDeleted, existing.Email, rawID, existing))
	}
	return outcome, nil
}

func parseID(raw string) (bson.ObjectID, error) {
	if raw == "" {
		return bson.ObjectID{}, apperr.New(apperr.Invalid, "Missing required fields: id")
	}
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return bson.ObjectID{}, apperr.Wrap(apperr.Invalid, "Invalid expense id", err)
	}
	return id, nil
}
