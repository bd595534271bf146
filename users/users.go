// Package users implements the user directory: registration and credential
// checks against the users collection.
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/hey-kuldeep/expense-xtrac/apperr"
	"github.com/hey-kuldeep/expense-xtrac/events"
	"github.com/hey-kuldeep/expense-xtrac/logger"
	"github.com/hey-kuldeep/expense-xtrac/models"
	"github.com/hey-kuldeep/expense-xtrac/mongodb"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgDuplicateUser = "User already registered"
	MsgUserNotFound  = "User not found"
)

// Store is the persistence the directory needs. *mongodb.UserRepository
// satisfies it. Find methods return nil, nil when nothing matches.
type Store interface {
	FindByMobileOrEmail(ctx context.Context, mobile, email string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type Directory struct {
	store      Store
	publisher  events.Publisher
	bcryptCost int
}

func NewDirectory(store Store, publisher events.Publisher, bcryptCost int) *Directory {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Directory{store: store, publisher: publisher, bcryptCost: bcryptCost}
}

type RegisterInput struct {
	FullName string
	Gender   string
	Mobile   string
	Email    string
	Password string
}

func (in RegisterInput) validate() error {
	fields := []struct{ name, value string }{
		{"fullname", in.FullName},
		{"gender", in.Gender},
		{"mobile", in.Mobile},
		{"email", in.Email},
		{"password", in.Password},
	}
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.New(apperr.Invalid, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if len(in.Mobile) < models.MinMobileLength {
		return apperr.New(apperr.Invalid, "Mobile number should have 10 digits")
	}
	return nil
}

// Register creates a user unless the mobile number or email is already taken.
func (d *Directory) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), d.bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error hashing password", err)
	}

	existing, err := d.store.FindByMobileOrEmail(ctx, in.Mobile, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Get().Info("registration rejected, user exists",
			zap.String("email", in.Email))
		return nil, apperr.New(apperr.DuplicateUser, MsgDuplicateUser)
	}

	user := &models.User{
		FullName: in.FullName,
		Gender:   in.Gender,
		Mobile:   in.Mobile,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := d.store.Create(ctx, user); err != nil {
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return nil, apperr.Wrap(apperr.DuplicateUser, MsgDuplicateUser, err)
		}
		return nil, err
	}

	logger.Get().Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))
	d.publisher.Publish(ctx, events.New(events.UserRegistered, user.Email, user.ID.Hex(), user))
	return user, nil
}

// Authenticate reports whether password matches the stored hash of the first
// user registered under email. An unknown email is a UserNotFound error; a
// wrong password is a false result.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, apperr.New(apperr.Invalid, "Email and password are required")
	}

	user, err := d.store.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, apperr.New(apperr.UserNotFound, MsgUserNotFound)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, apperr.Wrap(apperr.Internal, "error comparing password", err)
	}
}
