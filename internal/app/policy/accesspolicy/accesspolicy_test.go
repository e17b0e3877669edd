package accesspolicy_test

import (
	"testing"
	"time"

	"github.com/dhanushkumarms/campusconnect/internal/app/policy/accesspolicy"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func groupWith(members ...models.Member) models.Group {
	return models.Group{
		ID:        primitive.NewObjectID(),
		Name:      "CS101",
		Type:      models.TypeCourse,
		CreatedBy: primitive.NewObjectID(),
		IsPublic:  true,
		Members:   members,
	}
}

func student(dept, year string) models.User {
	return models.User{
		ID:         primitive.NewObjectID(),
		Role:       models.UserStudent,
		Department: dept,
		Year:       year,
	}
}

func TestExplicitRole(t *testing.T) {
	uid := primitive.NewObjectID()
	g := groupWith(models.Member{UserID: uid, Role: models.RoleModerator, JoinedAt: time.Now()})

	role, ok := accesspolicy.ExplicitRole(g, uid)
	if !ok {
		t.Fatal("expected membership tuple to be found")
	}
	if role != models.RoleModerator {
		t.Errorf("role: got %q, want %q", role, models.RoleModerator)
	}

	if _, ok := accesspolicy.ExplicitRole(g, primitive.NewObjectID()); ok {
		t.Error("expected no role for a non-member")
	}
}

func TestMatchesCriteria_AbsentNeverMatches(t *testing.T) {
	g := groupWith()
	u := student("CS", "2026")

	if accesspolicy.MatchesCriteria(g, u) {
		t.Error("nil criteria must not match")
	}

	// All-empty sets are the same as absent criteria: closed world.
	g.AccessCriteria = &models.AccessCriteria{}
	if accesspolicy.MatchesCriteria(g, u) {
		t.Error("empty criteria must not match, regardless of user attributes")
	}
}

func TestMatchesCriteria_Conjunction(t *testing.T) {
	g := groupWith()
	g.AccessCriteria = &models.AccessCriteria{
		Roles:       []models.UserRole{models.UserStudent},
		Departments: []string{"CS", "EE"},
	}

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{"role and department match", student("CS", "2026"), true},
		{"department mismatch", student("ME", "2026"), false},
		{"role mismatch", models.User{ID: primitive.NewObjectID(), Role: models.UserFaculty, Department: "CS"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := accesspolicy.MatchesCriteria(g, tt.user); got != tt.want {
				t.Errorf("MatchesCriteria = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesCriteria_EmptySetPasses(t *testing.T) {
	g := groupWith()
	g.AccessCriteria = &models.AccessCriteria{Years: []string{"2026"}}

	// Roles and departments unset: only the year gate applies.
	if !accesspolicy.MatchesCriteria(g, student("anything", "2026")) {
		t.Error("expected year-only criteria to match a 2026 student")
	}
	if accesspolicy.MatchesCriteria(g, student("anything", "2027")) {
		t.Error("expected year-only criteria to reject a 2027 student")
	}
}

func TestEffectiveAccess_ExplicitWinsOverCriteria(t *testing.T) {
	u := student("CS", "2026")
	g := groupWith(models.Member{UserID: u.ID, Role: models.RoleMember, JoinedAt: time.Now()})
	g.AccessCriteria = &models.AccessCriteria{Departments: []string{"CS"}}

	d := accesspolicy.EffectiveAccess(g, u)
	if d.Level != accesspolicy.LevelExplicitMember {
		t.Fatalf("level: got %v, want explicit-member", d.Level)
	}
	if d.Role != models.RoleMember {
		t.Errorf("role: got %q, want %q", d.Role, models.RoleMember)
	}
}

func TestEffectiveAccess_Precedence(t *testing.T) {
	u := student("CS", "2026")

	// Criteria match without a tuple: implicit member.
	g := groupWith()
	g.IsPublic = false
	g.AccessCriteria = &models.AccessCriteria{Departments: []string{"CS"}}
	if d := accesspolicy.EffectiveAccess(g, u); d.Level != accesspolicy.LevelImplicitMember || d.Role != models.RoleMember {
		t.Errorf("implicit member: got %+v", d)
	}

	// No match, public group: visible only.
	g.AccessCriteria = nil
	g.IsPublic = true
	if d := accesspolicy.EffectiveAccess(g, u); d.Level != accesspolicy.LevelVisible {
		t.Errorf("visible-only: got %v", d.Level)
	}

	// No match, private group: no access.
	g.IsPublic = false
	if d := accesspolicy.EffectiveAccess(g, u); d.Level != accesspolicy.LevelNone {
		t.Errorf("no access: got %v", d.Level)
	}
}

func TestCanManage(t *testing.T) {
	creator := primitive.NewObjectID()
	adminByRole := primitive.NewObjectID()
	adminBySet := primitive.NewObjectID()
	plainMember := primitive.NewObjectID()

	g := groupWith(
		models.Member{UserID: adminByRole, Role: models.RoleAdmin, JoinedAt: time.Now()},
		models.Member{UserID: plainMember, Role: models.RoleMember, JoinedAt: time.Now()},
	)
	g.CreatedBy = creator
	g.Admins = []primitive.ObjectID{adminBySet}

	tests := []struct {
		name string
		uid  primitive.ObjectID
		want bool
	}{
		{"creator", creator, true},
		{"admins set", adminBySet, true},
		{"explicit admin role", adminByRole, true},
		{"plain member", plainMember, false},
		{"stranger", primitive.NewObjectID(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := accesspolicy.CanManage(g, tt.uid); got != tt.want {
				t.Errorf("CanManage = %v, want %v", got, tt.want)
			}
		})
	}
}
