// internal/app/store/groups/hierarchy.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetParent re-parents a group. A nil newParentID detaches the group
// and makes it a root. The move is rejected with ErrCycle when the new
// parent is the group itself or any of its descendants: the cycle
// check walks the proposed parent's ancestor chain looking for the
// group being moved.
//
// The check-then-write runs under the hierarchy mutex and commits with
// an optimistic version filter; if another writer bumped the group's
// version between read and commit, the whole sequence re-runs.
func (s *Store) SetParent(ctx context.Context, groupID primitive.ObjectID, newParentID *primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < mutationRetries; attempt++ {
		g, err := s.GetByID(ctx, groupID)
		if err != nil {
			return err
		}

		if newParentID != nil {
			if *newParentID == groupID {
				return ErrCycle
			}
			parent, err := s.GetByID(ctx, *newParentID)
			if err != nil {
				if errors.Is(err, ErrGroupNotFound) {
					return ErrParentNotFound
				}
				return err
			}
			onChain, err := s.ancestorChainContains(ctx, parent, groupID)
			if err != nil {
				return err
			}
			if onChain {
				return ErrCycle
			}
		}

		set := bson.M{"updated_at": time.Now().UTC()}
		update := bson.M{
			"$set": set,
			"$inc": bson.M{"version": 1},
		}
		if newParentID != nil {
			set["parent_id"] = *newParentID
		} else {
			update["$unset"] = bson.M{"parent_id": ""}
		}

		res, err := s.c.UpdateOne(ctx, bson.M{"_id": groupID, "version": g.Version}, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}
		// Version moved under us; re-read and re-validate.
	}
	return ErrConflict
}

// ListChildren returns the direct children of a group, sorted by
// folded name.
func (s *Store) ListChildren(ctx context.Context, id primitive.ObjectID) ([]models.Group, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"parent_id": id}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var children []models.Group
	if err := cur.All(ctx, &children); err != nil {
		return nil, err
	}
	return children, nil
}

// ListAncestors walks parent links from the group to its root and
// returns the chain nearest-first (the group itself is not included).
// A revisited id means a stored cycle, which the re-parenting checks
// should have made impossible; that surfaces as ErrIntegrity.
func (s *Store) ListAncestors(ctx context.Context, id primitive.ObjectID) ([]models.Group, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	seen := map[primitive.ObjectID]bool{g.ID: true}
	var chain []models.Group
	for g.ParentID != nil {
		if seen[*g.ParentID] {
			return nil, ErrIntegrity
		}
		seen[*g.ParentID] = true
		parent, err := s.GetByID(ctx, *g.ParentID)
		if err != nil {
			if errors.Is(err, ErrGroupNotFound) {
				// Dangling parent reference.
				return nil, ErrIntegrity
			}
			return nil, err
		}
		chain = append(chain, parent)
		g = parent
	}
	return chain, nil
}

// ancestorChainContains walks root-ward from g and reports whether
// target appears on the chain (g itself included).
func (s *Store) ancestorChainContains(ctx context.Context, g models.Group, target primitive.ObjectID) (bool, error) {
	seen := map[primitive.ObjectID]bool{}
	for {
		if g.ID == target {
			return true, nil
		}
		if seen[g.ID] {
			return false, ErrIntegrity
		}
		seen[g.ID] = true
		if g.ParentID == nil {
			return false, nil
		}
		parent, err := s.GetByID(ctx, *g.ParentID)
		if err != nil {
			if errors.Is(err, ErrGroupNotFound) {
				return false, ErrIntegrity
			}
			return false, err
		}
		g = parent
	}
}

func (s *Store) exists(ctx context.Context, id primitive.ObjectID) error {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrGroupNotFound
	}
	return err
}
