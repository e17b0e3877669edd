// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/txn"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store is the authoritative owner of group records and the hierarchy
// they form. Membership tuples are embedded on the group document, so
// membership edits are single-document atomic updates. Hierarchy-shape
// mutations (SetParent, Delete) additionally serialize through an
// in-process mutex so their check-then-write sequences cannot
// interleave.
type Store struct {
	db    *mongo.Database
	c     *mongo.Collection
	users *mongo.Collection

	// mu serializes hierarchy-shape mutations. Held only for the
	// duration of the mutation, never across unrelated I/O.
	mu sync.Mutex
}

// mutationRetries bounds the optimistic re-validate loop on writes
// that lose the version check to a concurrent writer.
const mutationRetries = 3

func New(db *mongo.Database) *Store {
	return &Store{
		db:    db,
		c:     db.Collection("groups"),
		users: db.Collection("users"),
	}
}

// CreateParams is the input contract for Create. Defaults are explicit
// here rather than implied by field zero values: a nil IsPublic means
// the group is public (discoverable by non-members).
type CreateParams struct {
	Name        string
	Description string
	Type        models.GroupType
	CreatedBy   primitive.ObjectID
	ParentID    *primitive.ObjectID
	IsPublic    *bool
	Criteria    *models.AccessCriteria
}

// Create inserts a new group. The creator becomes both the first admin
// and the first membership tuple (role admin).
func (s *Store) Create(ctx context.Context, p CreateParams) (models.Group, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Group{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !p.Type.Valid() {
		return models.Group{}, &ValidationError{Field: "type", Reason: "unknown group type " + string(p.Type)}
	}
	if err := s.userExists(ctx, p.CreatedBy); err != nil {
		return models.Group{}, err
	}
	if p.ParentID != nil {
		if err := s.c.FindOne(ctx, bson.M{"_id": *p.ParentID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.Group{}, ErrParentNotFound
			}
			return models.Group{}, err
		}
	}

	isPublic := true
	if p.IsPublic != nil {
		isPublic = *p.IsPublic
	}
	criteria := p.Criteria
	if criteria.Empty() {
		criteria = nil
	}

	now := time.Now().UTC()
	g := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: p.Description,
		Type:        p.Type,
		ParentID:    p.ParentID,
		CreatedBy:   p.CreatedBy,
		Admins:      []primitive.ObjectID{p.CreatedBy},
		Members: []models.Member{
			{UserID: p.CreatedBy, Role: models.RoleAdmin, JoinedAt: now},
		},
		IsPublic:       isPublic,
		AccessCriteria: criteria,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByID fetches a single group.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrGroupNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// UpdateInfo changes a group's name and/or description. A blank name
// keeps the current one; the description can be cleared.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string) error {
	set := bson.M{
		"description": desc,
		"updated_at":  time.Now().UTC(),
	}
	if n := strings.TrimSpace(name); n != "" {
		set["name"] = n
		set["name_ci"] = text.Fold(n)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set, "$inc": bson.M{"version": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// SetVisibility flips the public/discoverable flag.
func (s *Store) SetVisibility(ctx context.Context, id primitive.ObjectID, public bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"is_public": public, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// SetAccessCriteria replaces the implicit-membership rule set. A nil
// or all-empty criteria clears it, which turns off auto-matching.
func (s *Store) SetAccessCriteria(ctx context.Context, id primitive.ObjectID, c *models.AccessCriteria) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	if c.Empty() {
		update["$unset"] = bson.M{"access_criteria": ""}
	} else {
		set["access_criteria"] = c
	}
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// Delete removes a group. Orphan policy: direct children are
// re-parented to the deleted group's own parent (cleared when the
// deleted group was a root), so the tree stays connected instead of
// holding dangling references. The re-parent pass and the delete run
// inside one transaction when the deployment supports them, so a
// failure between the two leaves no partial state behind.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return txn.Run(ctx, s.db, zap.L(), func(ctx context.Context) error {
		g, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		set := bson.M{"updated_at": now}
		reparent := bson.M{
			"$set": set,
			"$inc": bson.M{"version": 1},
		}
		if g.ParentID != nil {
			set["parent_id"] = *g.ParentID
		} else {
			reparent["$unset"] = bson.M{"parent_id": ""}
		}
		if _, err := s.c.UpdateMany(ctx, bson.M{"parent_id": id}, reparent); err != nil {
			return err
		}

		res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrGroupNotFound
		}
		return nil
	})
}

func (s *Store) userExists(ctx context.Context, id primitive.ObjectID) error {
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrUserNotFound
	}
	return err
}
