package groupstore_test

import (
	"errors"
	"testing"

	"github.com/dhanushkumarms/campusconnect/internal/app/policy/accesspolicy"
	groupstore "github.com/dhanushkumarms/campusconnect/internal/app/store/groups"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"github.com/dhanushkumarms/campusconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_AddMember_DefaultRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	student := fixtures.CreateStudent(ctx, "Jordan Lee", "CS", "2026")

	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS101", Type: models.TypeCourse, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Empty role means member.
	if err := store.AddMember(ctx, g.ID, student.ID, ""); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	i := got.MemberIndex(student.ID)
	if i < 0 {
		t.Fatal("expected student to have a membership tuple")
	}
	if got.Members[i].Role != models.RoleMember {
		t.Errorf("role: got %q, want %q", got.Members[i].Role, models.RoleMember)
	}
	if got.Members[i].JoinedAt.IsZero() {
		t.Error("expected JoinedAt to be set")
	}
}

func TestStore_AddMember_UpsertKeepsJoinedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	student := fixtures.CreateStudent(ctx, "Jordan Lee", "CS", "2026")

	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS101", Type: models.TypeCourse, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.AddMember(ctx, g.ID, student.ID, models.RoleModerator); err != nil {
		t.Fatalf("first AddMember failed: %v", err)
	}
	first, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	joined := first.Members[first.MemberIndex(student.ID)].JoinedAt

	// Second add with a different role: exactly one tuple, last role
	// wins, original join time preserved.
	if err := store.AddMember(ctx, g.ID, student.ID, models.RoleMember); err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}
	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	var tuples int
	for _, m := range got.Members {
		if m.UserID == student.ID {
			tuples++
		}
	}
	if tuples != 1 {
		t.Fatalf("membership tuples for student: got %d, want 1", tuples)
	}
	m := got.Members[got.MemberIndex(student.ID)]
	if m.Role != models.RoleMember {
		t.Errorf("role: got %q, want %q (last call wins)", m.Role, models.RoleMember)
	}
	if !m.JoinedAt.Equal(joined) {
		t.Errorf("JoinedAt changed on upsert: got %v, want %v", m.JoinedAt, joined)
	}
}

func TestStore_AddMember_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	student := fixtures.CreateStudent(ctx, "Jordan Lee", "CS", "2026")

	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS101", Type: models.TypeCourse, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.AddMember(ctx, g.ID, student.ID, models.MemberRole("owner")); !errors.Is(err, groupstore.ErrValidation) {
		t.Errorf("bad role: got %v, want ErrValidation", err)
	}
	if err := store.AddMember(ctx, g.ID, primitive.NewObjectID(), models.RoleMember); !errors.Is(err, groupstore.ErrUserNotFound) {
		t.Errorf("unknown user: got %v, want ErrUserNotFound", err)
	}
	if err := store.AddMember(ctx, primitive.NewObjectID(), student.ID, models.RoleMember); !errors.Is(err, groupstore.ErrGroupNotFound) {
		t.Errorf("unknown group: got %v, want ErrGroupNotFound", err)
	}
}

func TestStore_AddThenRemove_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	student := fixtures.CreateStudent(ctx, "Jordan Lee", "CS", "2026")

	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS101", Type: models.TypeCourse, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// The round-trip holds for every role used on the way in.
	for _, role := range []models.MemberRole{models.RoleMember, models.RoleModerator, models.RoleAdmin} {
		if err := store.AddMember(ctx, g.ID, student.ID, role); err != nil {
			t.Fatalf("AddMember(%q) failed: %v", role, err)
		}
		if err := store.RemoveMember(ctx, g.ID, student.ID); err != nil {
			t.Fatalf("RemoveMember after %q failed: %v", role, err)
		}
		got, err := store.GetByID(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.MemberIndex(student.ID) >= 0 {
			t.Errorf("after add(%q)+remove: student still present", role)
		}
	}

	// Removing an absent member is a no-op success.
	if err := store.RemoveMember(ctx, g.ID, student.ID); err != nil {
		t.Errorf("remove absent member: got %v, want nil", err)
	}
}

func TestStore_RemoveMember_DropsAdminGrant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	helper := fixtures.CreateFaculty(ctx, "Prof Okafor", "CS")

	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS101", Type: models.TypeCourse, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.AddMember(ctx, g.ID, helper.ID, models.RoleMember); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := store.GrantAdmin(ctx, g.ID, helper.ID); err != nil {
		t.Fatalf("GrantAdmin failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !accesspolicy.CanManage(got, helper.ID) {
		t.Fatal("expected helper to manage after GrantAdmin")
	}

	if err := store.RemoveMember(ctx, g.ID, helper.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	got, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsAdminUser(helper.ID) {
		t.Error("expected admin grant to be dropped with the membership")
	}
}

func TestStore_SetMemberRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	student := fixtures.CreateStudent(ctx, "Jordan Lee", "CS", "2026")

	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS101", Type: models.TypeCourse, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A non-member cannot have their role set.
	if err := store.SetMemberRole(ctx, g.ID, student.ID, models.RoleModerator); !errors.Is(err, groupstore.ErrMemberNotFound) {
		t.Errorf("non-member: got %v, want ErrMemberNotFound", err)
	}

	if err := store.AddMember(ctx, g.ID, student.ID, models.RoleMember); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := store.SetMemberRole(ctx, g.ID, student.ID, models.RoleModerator); err != nil {
		t.Fatalf("SetMemberRole failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if role := got.Members[got.MemberIndex(student.ID)].Role; role != models.RoleModerator {
		t.Errorf("role: got %q, want %q", role, models.RoleModerator)
	}
}

func TestStore_ListVisibleTo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	student := fixtures.CreateStudent(ctx, "Jordan Lee", "CS", "2026")

	private := false
	public, err := store.Create(ctx, groupstore.CreateParams{
		Name: "Chess Club", Type: models.TypeClub, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("create public: %v", err)
	}
	hidden, err := store.Create(ctx, groupstore.CreateParams{
		Name: "Faculty Senate", Type: models.TypeCustom, CreatedBy: creator.ID, IsPublic: &private,
	})
	if err != nil {
		t.Fatalf("create hidden: %v", err)
	}
	criteria, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS Majors", Type: models.TypeDepartment, CreatedBy: creator.ID, IsPublic: &private,
		Criteria: &models.AccessCriteria{Departments: []string{"CS"}},
	})
	if err != nil {
		t.Fatalf("create criteria: %v", err)
	}
	joined, err := store.Create(ctx, groupstore.CreateParams{
		Name: "Grading Team", Type: models.TypeCustom, CreatedBy: creator.ID, IsPublic: &private,
	})
	if err != nil {
		t.Fatalf("create joined: %v", err)
	}
	if err := store.AddMember(ctx, joined.ID, student.ID, models.RoleMember); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	visible, err := store.ListVisibleTo(ctx, student)
	if err != nil {
		t.Fatalf("ListVisibleTo failed: %v", err)
	}

	want := map[primitive.ObjectID]bool{public.ID: true, criteria.ID: true, joined.ID: true}
	got := map[primitive.ObjectID]bool{}
	for _, g := range visible {
		got[g.ID] = true
	}
	for id := range want {
		if !got[id] {
			t.Errorf("expected group %v to be visible", id)
		}
	}
	if got[hidden.ID] {
		t.Error("private non-matching group should be invisible")
	}
}

func TestStore_ListVisibleTo_AdminWithoutMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateFaculty(ctx, "Owner", "CS")
	admin := fixtures.CreateFaculty(ctx, "Delegate", "Math")
	private := false

	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "Curriculum Board", Type: models.TypeCustom,
		CreatedBy: owner.ID, IsPublic: &private,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// An admin grant alone carries no membership tuple, but the group
	// must still show up in the delegate's listing.
	if err := store.GrantAdmin(ctx, g.ID, admin.ID); err != nil {
		t.Fatalf("GrantAdmin: %v", err)
	}

	visible, err := store.ListVisibleTo(ctx, admin)
	if err != nil {
		t.Fatalf("ListVisibleTo: %v", err)
	}
	found := false
	for _, v := range visible {
		if v.ID == g.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("administered private group missing from visible list")
	}
}
