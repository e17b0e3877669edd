// internal/app/store/users/userstore.go
package userstore

// The group subsystem treats the user directory as a read-only
// collaborator: profiles are fetched per evaluation and never cached
// or written. User records are owned by the surrounding application.

import (
	"context"
	"errors"

	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = errors.New("user not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID fetches the attributes the access resolver needs: role,
// department, and year, plus display fields.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByIDHex parses a hex id and fetches the user. Malformed ids are
// reported as not found rather than as a distinct error, since callers
// pass ids straight from request input.
func (s *Store) GetByIDHex(ctx context.Context, hex string) (models.User, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	return s.GetByID(ctx, id)
}
