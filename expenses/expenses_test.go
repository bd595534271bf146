package expenses

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hey-kuldeep/expense-xtrac/apperr"
	"github.com/hey-kuldeep/expense-xtrac/events"
	"github.com/hey-kuldeep/expense-xtrac/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memStore struct {
	mu       sync.Mutex
	expenses []models.Expense
	err      error
}

func (m *memStore) Create(_ context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	e.ID = bson.NewObjectID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.expenses = append(m.expenses, *e)
	return nil
}

func (m *memStore) ListByEmail(_ context.Context, email string) ([]models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Expense
	for _, e := range m.expenses {
		if e.Email == email {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.expenses {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memStore) Update(_ context.Context, id bson.ObjectID, c models.ExpenseChanges) (models.UpdateOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.UpdateOutcome{}, m.err
	}
	for i := range m.expenses {
		if m.expenses[i].ID != id {
			continue
		}
		e := &m.expenses[i]
		if c.Category != nil {
			e.Category = *c.Category
		}
		if c.Amount != nil {
			e.Amount = *c.Amount
		}
		if c.Date != nil {
			e.Date = *c.Date
		}
		if c.Description != nil {
			e.Description = *c.Description
		}
		e.UpdatedAt = time.Now()
		return models.UpdateOutcome{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return models.UpdateOutcome{Acknowledged: true}, nil
}

func (m *memStore) Delete(_ context.Context, id bson.ObjectID) (models.DeleteOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.DeleteOutcome{}, m.err
	}
	for i, e := range m.expenses {
		if e.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return models.DeleteOutcome{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return models.DeleteOutcome{Acknowledged: true}, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.events = append(p.events, e)
}

func ptr[T any](v T) *T { return &v }

func newLedger() (*Ledger, *memStore, *recordingPublisher) {
	store := &memStore{}
	pub := &recordingPublisher{}
	return NewLedger(store, pub), store, pub
}

func lunch() CreateInput {
	return CreateInput{
		Email:       "ada@example.com",
		Category:    "Food",
		Amount:      ptr(12.5),
		Date:        "01/05/2024",
		Description: "lunch",
	}
}

func TestCreateStoresFieldsVerbatim(t *testing.T) {
	ledger, _, pub := newLedger()

	got, err := ledger.Create(context.Background(), lunch())
	require.NoError(t, err)

	assert.False(t, got.ID.IsZero())
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, 12.5, got.Amount)
	assert.Equal(t, "01/05/2024", got.Date)
	assert.Equal(t, "lunch", got.Description)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ExpenseCreated, pub.events[0].Type)
	assert.Equal(t, "ada@example.com", pub.events[0].Email)
}

func TestCreateAcceptsZeroAmountAndNoDescription(t *testing.T) {
	ledger, _, _ := newLedger()
	in := lunch()
	in.Amount = ptr(0.0)
	in.Description = ""

	got, err := ledger.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Amount)
	assert.Empty(t, got.Description)
}

func TestCreateRequiresFields(t *testing.T) {
	ledger, store, pub := newLedger()

	_, err := ledger.Create(context.Background(), CreateInput{Email: "ada@example.com"})
	require.Error(t, err)
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
	assert.Equal(t, "Missing required fields: category, amount, date", apperr.MessageOf(err, ""))
	assert.Empty(t, store.expenses)
	assert.Empty(t, pub.events)
}

func TestListByEmail(t *testing.T) {
	ledger, _, _ := newLedger()
	first, err := ledger.Create(context.Background(), lunch())
	require.NoError(t, err)
	other := lunch()
	other.Email = "bob@example.com"
	_, err = ledger.Create(context.Background(), other)
	require.NoError(t, err)

	list, err := ledger.List(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	empty, err := ledger.List(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUpdate(t *testing.T) {
	ledger, store, pub := newLedger()
	created, err := ledger.Create(context.Background(), lunch())
	require.NoError(t, err)

	outcome, err := ledger.Update(context.Background(), UpdateInput{
		ID:          created.ID.Hex(),
		Category:    ptr("Travel"),
		Amount:      ptr(40.0),
		Date:        ptr("02/05/2024"),
		Description: ptr("taxi"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, outcome.MatchedCount)
	assert.EqualValues(t, 1, outcome.ModifiedCount)

	stored := store.expenses[0]
	assert.Equal(t, "Travel", stored.Category)
	assert.Equal(t, 40.0, stored.Amount)
	assert.Equal(t, "ada@example.com", stored.Email)

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.ExpenseUpdated, pub.events[1].Type)
}

func TestUpdateUnknownIDReportsZeroMatches(t *testing.T) {
	ledger, _, pub := newLedger()

	outcome, err := ledger.Update(context.Background(), UpdateInput{ID: bson.NewObjectID().Hex(), Category: ptr("x")})
	require.NoError(t, err)
	assert.EqualValues(t, 0, outcome.MatchedCount)
	assert.Empty(t, pub.events)
}

func TestMalformedIDIsInvalid(t *testing.T) {
	ledger, _, _ := newLedger()

	_, err := ledger.Update(context.Background(), UpdateInput{ID: "not-an-id"})
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))

	_, err = ledger.Delete(context.Background(), "")
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
}

func TestDelete(t *testing.T) {
	ledger, _, pub := newLedger()
	created, err := ledger.Create(context.Background(), lunch())
	require.NoError(t, err)

	outcome, err := ledger.Delete(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, outcome.DeletedCount)

	list, err := ledger.List(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.Len(t, pub.events, 2)
	deleted := pub.events[1]
	assert.Equal(t, events.ExpenseDeleted, deleted.Type)
	assert.Equal(t, "ada@example.com", deleted.Email)

	outcome, err = ledger.Delete(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 0, outcome.DeletedCount)
	assert.Len(t, pub.events, 2)
}

func TestStoreFaultsPropagate(t *testing.T) {
	ledger, store, pub := newLedger()
	store.err = errors.New("connection refused")

	_, err := ledger.Create(context.Background(), lunch())
	assert.ErrorIs(t, err, store.err)

	_, err = ledger.List(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, store.err)

	_, err = ledger.Update(context.Background(), UpdateInput{ID: bson.NewObjectID().Hex()})
	assert.ErrorIs(t, err, store.err)

	_, err = ledger.Delete(context.Background(), bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, store.err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))

	assert.Empty(t, pub.events)
}
