// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupType classifies a group. The set is closed; changing a group's
// type after creation is not supported.
type GroupType string

const (
	TypeDepartment GroupType = "department"
	TypeYear       GroupType = "year"
	TypeCourse     GroupType = "course"
	TypeClub       GroupType = "club"
	TypeCustom     GroupType = "custom"
)

// Valid reports whether t is one of the recognized group types.
func (t GroupType) Valid() bool {
	switch t {
	case TypeDepartment, TypeYear, TypeCourse, TypeClub, TypeCustom:
		return true
	}
	return false
}

// MemberRole is the role a user holds inside a group.
type MemberRole string

const (
	RoleMember    MemberRole = "member"
	RoleModerator MemberRole = "moderator"
	RoleAdmin     MemberRole = "admin"
)

// Valid reports whether r is one of the recognized member roles.
func (r MemberRole) Valid() bool {
	switch r {
	case RoleMember, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Member is one membership tuple embedded on the group document.
// The members array is append-ordered, so it stays sorted by join time.
type Member struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     MemberRole         `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// AccessCriteria is the optional rule set used to infer membership
// without an explicit join. A nil criteria (or one whose sets are all
// empty) never grants implicit access; absence means "no auto-matching",
// not "matches everyone".
type AccessCriteria struct {
	Roles       []UserRole `bson:"roles,omitempty" json:"roles,omitempty"`
	Departments []string   `bson:"departments,omitempty" json:"departments,omitempty"`
	Years       []string   `bson:"years,omitempty" json:"years,omitempty"`
}

// Empty reports whether every criteria set is empty.
func (c *AccessCriteria) Empty() bool {
	return c == nil || (len(c.Roles) == 0 && len(c.Departments) == 0 && len(c.Years) == 0)
}

// Group represents a hierarchical collection of users: a department,
// a year cohort, a course, a club, or a custom grouping.
//
// NOTE:
//   - Membership tuples are embedded on the group document so that
//     membership edits are single-document atomic writes.
//   - ParentID is a weak reference; the group store owns the
//     authoritative tree and keeps parent chains acyclic.
//   - Version is the optimistic concurrency token bumped on every
//     mutation. Check-then-write operations (re-parenting, delete)
//     re-validate against it immediately before commit.
type Group struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"name_ci"`
	Description string              `bson:"description" json:"description"`
	Type        GroupType           `bson:"type" json:"type"`
	ParentID    *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`

	CreatedBy primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Admins    []primitive.ObjectID `bson:"admins" json:"admins"`
	Members   []Member             `bson:"members" json:"members"`

	IsPublic       bool            `bson:"is_public" json:"is_public"`
	AccessCriteria *AccessCriteria `bson:"access_criteria,omitempty" json:"access_criteria,omitempty"`

	Version int64 `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MemberIndex returns the position of userID in the members array,
// or -1 if the user has no membership tuple.
func (g *Group) MemberIndex(userID primitive.ObjectID) int {
	for i, m := range g.Members {
		if m.UserID == userID {
			return i
		}
	}
	return -1
}

// IsAdminUser reports whether userID appears in the admins set.
func (g *Group) IsAdminUser(userID primitive.ObjectID) bool {
	for _, a := range g.Admins {
		if a == userID {
			return true
		}
	}
	return false
}
