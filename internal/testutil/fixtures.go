package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given attributes and returns it
// with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, name string, role models.UserRole, dept, year string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      text.Fold(name) + "@test.edu",
		Role:       role,
		Department: dept,
		Year:       year,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateStudent inserts a student user.
func (f *Fixtures) CreateStudent(ctx context.Context, name, dept, year string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.UserStudent, dept, year)
}

// CreateFaculty inserts a faculty user.
func (f *Fixtures) CreateFaculty(ctx context.Context, name, dept string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.UserFaculty, dept, "")
}
