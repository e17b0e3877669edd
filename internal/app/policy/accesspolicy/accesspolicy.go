// Package accesspolicy decides what a user can do with a group.
//
// Every function here is a pure computation over a group record and a
// user profile: no persistence, no side effects, no caching. The group
// store calls into this package when listing groups visible to a user;
// the HTTP layer calls it to gate mutations.
//
// Access precedence, highest first:
//   - explicit membership role (a stored membership tuple always wins)
//   - implicit membership via access criteria (treated as role member)
//   - public visibility (read-only discovery, no membership semantics)
//   - no access
//
// Membership tuples move between states {non-member, member, moderator,
// admin} only through the group store's AddMember / SetMemberRole /
// RemoveMember, and the caller is expected to have passed CanManage
// before invoking any of those.
package accesspolicy

import (
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Level is how much access a user has to a group.
type Level int

const (
	// LevelNone: the group is invisible to the user.
	LevelNone Level = iota
	// LevelVisible: the user can discover and read the group's public
	// face, nothing more.
	LevelVisible
	// LevelImplicitMember: the user matches the group's access
	// criteria but holds no membership tuple.
	LevelImplicitMember
	// LevelExplicitMember: the user holds a stored membership tuple.
	LevelExplicitMember
)

func (l Level) String() string {
	switch l {
	case LevelVisible:
		return "visible"
	case LevelImplicitMember:
		return "implicit-member"
	case LevelExplicitMember:
		return "explicit-member"
	default:
		return "none"
	}
}

// Decision is the outcome of an access evaluation. Role carries the
// effective member role and is only meaningful when Level grants
// membership; implicit members always get models.RoleMember.
type Decision struct {
	Level Level
	Role  models.MemberRole
}

// ExplicitRole returns the user's stored membership role. The second
// return is false when the user has no membership tuple; membership is
// keyed by user id, so there is at most one tuple to find.
func ExplicitRole(g models.Group, userID primitive.ObjectID) (models.MemberRole, bool) {
	if i := g.MemberIndex(userID); i >= 0 {
		return g.Members[i].Role, true
	}
	return "", false
}

// MatchesCriteria reports whether the user matches the group's access
// criteria. Absent criteria, and criteria whose sets are all empty,
// never match: absence means "no auto-matching", not "everyone
// matches". Within a present rule set, an empty individual set passes
// and a non-empty one must contain the user's attribute.
func MatchesCriteria(g models.Group, u models.User) bool {
	c := g.AccessCriteria
	if c.Empty() {
		return false
	}
	if len(c.Roles) > 0 && !containsRole(c.Roles, u.Role) {
		return false
	}
	if len(c.Departments) > 0 && !containsString(c.Departments, u.Department) {
		return false
	}
	if len(c.Years) > 0 && !containsString(c.Years, u.Year) {
		return false
	}
	return true
}

// EffectiveAccess resolves the user's access to the group under the
// package-level precedence. An explicit tuple always wins over a
// criteria match, so a stored role is never silently re-derived.
func EffectiveAccess(g models.Group, u models.User) Decision {
	if role, ok := ExplicitRole(g, u.ID); ok {
		return Decision{Level: LevelExplicitMember, Role: role}
	}
	if MatchesCriteria(g, u) {
		return Decision{Level: LevelImplicitMember, Role: models.RoleMember}
	}
	if g.IsPublic {
		return Decision{Level: LevelVisible}
	}
	return Decision{Level: LevelNone}
}

// CanManage reports whether the user may mutate the group: members of
// the admins set, explicit members with role admin, and the creator
// all qualify.
func CanManage(g models.Group, userID primitive.ObjectID) bool {
	if g.IsAdminUser(userID) {
		return true
	}
	if role, ok := ExplicitRole(g, userID); ok && role == models.RoleAdmin {
		return true
	}
	return userID == g.CreatedBy
}

func containsRole(set []models.UserRole, r models.UserRole) bool {
	for _, v := range set {
		if v == r {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
