// internal/app/store/groups/visibility.go
package groupstore

import (
	"context"

	"github.com/dhanushkumarms/campusconnect/internal/app/policy/accesspolicy"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListVisibleTo returns every group the user can at least see, sorted
// by folded name. The Mongo filter narrows to candidates (public
// groups, groups holding a membership tuple for the user, groups the
// user administers, and groups carrying access criteria); the access
// resolver then makes the final call so criteria stay live rather than
// snapshotted. Administered groups count as visible even without a
// membership tuple, since their admins can always open them.
func (s *Store) ListVisibleTo(ctx context.Context, user models.User) ([]models.Group, error) {
	filter := bson.M{"$or": []bson.M{
		{"is_public": true},
		{"members.user_id": user.ID},
		{"admins": user.ID},
		{"access_criteria": bson.M{"$exists": true}},
	}}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var candidates []models.Group
	if err := cur.All(ctx, &candidates); err != nil {
		return nil, err
	}

	visible := make([]models.Group, 0, len(candidates))
	for _, g := range candidates {
		if accesspolicy.EffectiveAccess(g, user).Level != accesspolicy.LevelNone ||
			accesspolicy.CanManage(g, user.ID) {
			visible = append(visible, g)
		}
	}
	return visible, nil
}
