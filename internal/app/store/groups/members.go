// internal/app/store/groups/members.go
package groupstore

// Membership edits are idempotent with respect to final state:
// adding an already-present member overwrites the role and leaves
// joined_at alone, removing an absent member is a successful no-op.
// Each edit is a single atomic document update, so two concurrent
// edits on the same group cannot race past each other and drop a
// change.

import (
	"context"
	"time"

	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddMember upserts a membership tuple. An empty role means
// models.RoleMember. For an existing member the role is overwritten
// and joined_at is preserved; otherwise a new tuple is appended, which
// keeps the members array ordered by join time.
func (s *Store) AddMember(ctx context.Context, groupID, userID primitive.ObjectID, role models.MemberRole) error {
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return &ValidationError{Field: "role", Reason: "unknown member role " + string(role)}
	}
	if err := s.userExists(ctx, userID); err != nil {
		return err
	}

	now := time.Now().UTC()
	for attempt := 0; attempt < mutationRetries; attempt++ {
		// Path 1: the user already has a tuple; overwrite its role.
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": groupID, "members.user_id": userID},
			bson.M{
				"$set": bson.M{"members.$.role": role, "updated_at": now},
				"$inc": bson.M{"version": 1},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}

		// Path 2: no tuple yet; append one. The $ne filter keeps a
		// concurrent path-2 writer from inserting a duplicate.
		res, err = s.c.UpdateOne(ctx,
			bson.M{"_id": groupID, "members.user_id": bson.M{"$ne": userID}},
			bson.M{
				"$push": bson.M{"members": models.Member{UserID: userID, Role: role, JoinedAt: now}},
				"$set":  bson.M{"updated_at": now},
				"$inc":  bson.M{"version": 1},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}

		// Neither filter matched: the group is gone, or a concurrent
		// writer added the tuple between the two updates.
		if err := s.exists(ctx, groupID); err != nil {
			return err
		}
	}
	return ErrConflict
}

// RemoveMember drops the user's membership tuple and any admin grant.
// Removing a user who is not a member succeeds without effect, which
// keeps caller retries from turning into spurious failures.
func (s *Store) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{
			"$pull": bson.M{
				"members": bson.M{"user_id": userID},
				"admins":  userID,
			},
			"$set": bson.M{"updated_at": time.Now().UTC()},
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

// SetMemberRole changes the role on an existing membership tuple.
// Unlike AddMember it does not create one: a user without a tuple is
// ErrMemberNotFound.
func (s *Store) SetMemberRole(ctx context.Context, groupID, userID primitive.ObjectID, role models.MemberRole) error {
	if !role.Valid() {
		return &ValidationError{Field: "role", Reason: "unknown member role " + string(role)}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID, "members.user_id": userID},
		bson.M{
			"$set": bson.M{"members.$.role": role, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if err := s.exists(ctx, groupID); err != nil {
		return err
	}
	return ErrMemberNotFound
}

// GrantAdmin adds the user to the group's admins set. The user does
// not have to hold a membership tuple; the admins set and the members
// array are independent grants.
func (s *Store) GrantAdmin(ctx context.Context, groupID, userID primitive.ObjectID) error {
	if err := s.userExists(ctx, userID); err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{
			"$addToSet": bson.M{"admins": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
			"$inc":      bson.M{"version": 1},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// RevokeAdmin removes the user from the admins set. Revoking a
// non-admin is a no-op success.
func (s *Store) RevokeAdmin(ctx context.Context, groupID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{
			"$pull": bson.M{"admins": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
			"$inc":  bson.M{"version": 1},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrGroupNotFound
	}
	return nil
}
