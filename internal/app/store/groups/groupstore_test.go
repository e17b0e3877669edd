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

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")

	created, err := store.Create(ctx, groupstore.CreateParams{
		Name:      "CS101",
		Type:      models.TypeCourse,
		CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	// Creator is seeded as both admin and first member with role admin.
	if len(created.Members) != 1 {
		t.Fatalf("members: got %d, want 1", len(created.Members))
	}
	if created.Members[0].UserID != creator.ID || created.Members[0].Role != models.RoleAdmin {
		t.Errorf("creator membership: got %+v", created.Members[0])
	}
	if !accesspolicy.CanManage(created, creator.ID) {
		t.Error("creator should be able to manage the group")
	}
	if accesspolicy.CanManage(created, primitive.NewObjectID()) {
		t.Error("a stranger should not be able to manage the group")
	}

	// isPublic defaults to true when left unset.
	if !created.IsPublic {
		t.Error("expected IsPublic to default to true")
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")

	_, err := store.Create(ctx, groupstore.CreateParams{
		Name:      "   ",
		Type:      models.TypeCourse,
		CreatedBy: creator.ID,
	})
	if !errors.Is(err, groupstore.ErrValidation) {
		t.Errorf("blank name: got %v, want ErrValidation", err)
	}

	_, err = store.Create(ctx, groupstore.CreateParams{
		Name:      "Robotics",
		Type:      models.GroupType("guild"),
		CreatedBy: creator.ID,
	})
	if !errors.Is(err, groupstore.ErrValidation) {
		t.Errorf("bad type: got %v, want ErrValidation", err)
	}

	_, err = store.Create(ctx, groupstore.CreateParams{
		Name:      "Robotics",
		Type:      models.TypeClub,
		CreatedBy: primitive.NewObjectID(),
	})
	if !errors.Is(err, groupstore.ErrUserNotFound) {
		t.Errorf("unknown creator: got %v, want ErrUserNotFound", err)
	}
}

func TestStore_Create_ParentMustExist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	missing := primitive.NewObjectID()

	_, err := store.Create(ctx, groupstore.CreateParams{
		Name:      "CS101",
		Type:      models.TypeCourse,
		CreatedBy: creator.ID,
		ParentID:  &missing,
	})
	if !errors.Is(err, groupstore.ErrParentNotFound) {
		t.Errorf("got %v, want ErrParentNotFound", err)
	}
	if !errors.Is(err, groupstore.ErrNotFound) {
		t.Errorf("ErrParentNotFound should classify as ErrNotFound, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, groupstore.ErrGroupNotFound) {
		t.Errorf("got %v, want ErrGroupNotFound", err)
	}
}

func TestStore_UpdateInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS101", Type: models.TypeCourse, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateInfo(ctx, g.ID, "CS101H", "Honors section"); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "CS101H" {
		t.Errorf("name: got %q, want %q", got.Name, "CS101H")
	}
	if got.Description != "Honors section" {
		t.Errorf("description: got %q", got.Description)
	}
	if !got.UpdatedAt.After(g.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}
}

func TestStore_SetAccessCriteria_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateFaculty(ctx, "Prof Rivera", "CS")
	g, err := store.Create(ctx, groupstore.CreateParams{
		Name: "CS Majors", Type: models.TypeDepartment, CreatedBy: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	criteria := &models.AccessCriteria{
		Roles:       []models.UserRole{models.UserStudent},
		Departments: []string{"CS"},
	}
	if err := store.SetAccessCriteria(ctx, g.ID, criteria); err != nil {
		t.Fatalf("SetAccessCriteria failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.AccessCriteria == nil || len(got.AccessCriteria.Departments) != 1 {
		t.Fatalf("criteria not stored: %+v", got.AccessCriteria)
	}

	// Clearing with an all-empty criteria removes the field entirely.
	if err := store.SetAccessCriteria(ctx, g.ID, &models.AccessCriteria{}); err != nil {
		t.Fatalf("clear SetAccessCriteria failed: %v", err)
	}
	got, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.AccessCriteria != nil {
		t.Errorf("expected criteria to be cleared, got %+v", got.AccessCriteria)
	}
}
