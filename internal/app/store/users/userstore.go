// internal/app/store/users/userstore.go
package userstore

import (
	"context"

	"github.com/dalemusser/streamify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// profileProjection selects only the display fields handed back by list
// endpoints. Email and the friend-set never leave the store this way.
var profileProjection = bson.M{
	"_id":               1,
	"full_name":         1,
	"profile_pic":       1,
	"native_language":   1,
	"learning_language": 1,
	"location":          1,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FriendIDs returns the caller's friend-set. Returns mongo.ErrNoDocuments
// if the user record is missing.
func (s *Store) FriendIDs(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	var u struct {
		Friends []primitive.ObjectID `bson:"friends"`
	}
	proj := options.FindOne().SetProjection(bson.M{"friends": 1})
	if err := s.c.FindOne(ctx, bson.M{"_id": id}, proj).Decode(&u); err != nil {
		return nil, err
	}
	return u.Friends, nil
}

// AreFriends reports whether a and b appear in each other's friend-sets.
// Both sides are checked rather than trusting one cached set, so a
// half-written relationship never passes validation.
func (s *Store) AreFriends(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": a, "friends": b})
	if err != nil || n == 0 {
		return false, err
	}
	n, err = s.c.CountDocuments(ctx, bson.M{"_id": b, "friends": a})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddFriend adds friendID to owner's friend-set. $addToSet makes the
// write idempotent: adding an already-present member is a no-op.
func (s *Store) AddFriend(ctx context.Context, owner, friendID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, owner, bson.M{"$addToSet": bson.M{"friends": friendID}})
	return err
}

// FriendProfiles resolves the user's friend-set to display projections.
// Returns mongo.ErrNoDocuments if the user record itself is missing.
func (s *Store) FriendProfiles(ctx context.Context, id primitive.ObjectID) ([]models.Profile, error) {
	ids, err := s.FriendIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Profiles(ctx, ids)
}

// Profiles loads display projections for the given IDs, preserving the
// order of ids. Missing IDs are silently skipped.
func (s *Store) Profiles(ctx context.Context, ids []primitive.ObjectID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return []models.Profile{}, nil
	}

	opts := options.Find().SetProjection(profileProjection)
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byID := make(map[primitive.ObjectID]models.Profile, len(ids))
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Profile, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Recommended returns onboarded users who are neither the caller nor
// already in the caller's friend-set.
func (s *Store) Recommended(ctx context.Context, callerID primitive.ObjectID, friendIDs []primitive.ObjectID) ([]models.Profile, error) {
	excluded := append([]primitive.ObjectID{callerID}, friendIDs...)

	filter := bson.M{
		"_id":          bson.M{"$nin": excluded},
		"is_onboarded": true,
	}
	opts := options.Find().SetProjection(profileProjection).
		SetSort(bson.D{{Key: "full_name", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Profile{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
