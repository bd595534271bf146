package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/hey-kuldeep/expense-xtrac/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

// FindByMobileOrEmail returns any user registered with either value, or nil.
func (r *UserRepository) FindByMobileOrEmail(ctx context.Context, mobile, email string) (*models.User, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"mobile": mobile},
			bson.M{"email": email},
		},
	}
	return r.findOne(ctx, filter, nil)
}

// FindByEmail returns the oldest user with the given email, or nil. Email is
// not unique, so the order makes repeated lookups agree.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{"email": email}, opts)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptionsBuilder) (*models.User, error) {
	var res *mongo.SingleResult
	if opts != nil {
		res = r.collection.FindOne(ctx, filter, opts)
	} else {
		res = r.collection.FindOne(ctx, filter)
	}

	var user models.User
	if err := res.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return &user, nil
}

// Create inserts user and fills in its id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ts := now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("error creating user: %w: %v", ErrDuplicateKey, err)
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}
