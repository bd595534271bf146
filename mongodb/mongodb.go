package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hey-kuldeep/expense-xtrac/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	UserCollection    = "users"
	ExpenseCollection = "usersdatas"

	connectTimeout = 10 * time.Second
)

// ErrDuplicateKey is returned when a write violates a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

// Store owns the MongoDB client. Open it once at startup and Close it at
// shutdown; the repositories it hands out share the client's pool.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client against uri and verifies it with a ping.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Get().Error("failed to connect to MongoDB",
			zap.String("database", database),
			zap.Error(err))
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Get().Error("failed to ping MongoDB",
			zap.String("database", database),
			zap.Error(err))
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	logger.Get().Info("successfully connected to MongoDB",
		zap.String("database", database))
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{collection: s.db.Collection(UserCollection)}
}

func (s *Store) Expenses() *ExpenseRepository {
	return &ExpenseRepository{collection: s.db.Collection(ExpenseCollection)}
}

// EnsureIndexes creates the indexes the data model relies on. It is safe to
// call on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(UserCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mobile", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("error creating user indexes: %w", err)
	}

	_, err = s.db.Collection(ExpenseCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("error creating expense indexes: %w", err)
	}
	return nil
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Get().Error("failed to disconnect from MongoDB",
			zap.Error(err))
		return
	}
	logger.Get().Info("successfully disconnected from MongoDB")
}

// now returns the current time at the precision MongoDB stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
