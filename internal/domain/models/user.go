// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole is the campus-wide role of a user, matched against a
// group's access criteria.
type UserRole string

const (
	UserStudent UserRole = "student"
	UserFaculty UserRole = "faculty"
	UserAdmin   UserRole = "admin"
)

// Valid reports whether r is one of the recognized user roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserStudent, UserFaculty, UserAdmin:
		return true
	}
	return false
}

// User represents students, faculty, and admins.
//
// NOTE:
//   - The group subsystem only reads users (for creator checks and
//     criteria matching). User records are owned by the surrounding
//     application and never mutated here.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Role       UserRole           `bson:"role" json:"role"` // student | faculty | admin
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	Year       string             `bson:"year,omitempty" json:"year,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
