// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/dalemusser/streamify/internal/app/system/auth"
	"github.com/dalemusser/streamify/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each
// request, so profile edits and deleted accounts take effect immediately.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a user by ID and returns nil if the user is not
// found or if any error occurs. This implements auth.UserFetcher.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u struct {
		ID          primitive.ObjectID `bson:"_id"`
		FullName    string             `bson:"full_name"`
		ProfilePic  string             `bson:"profile_pic"`
		IsOnboarded bool               `bson:"is_onboarded"`
	}
	proj := options.FindOne().SetProjection(bson.M{
		"_id":          1,
		"full_name":    1,
		"profile_pic":  1,
		"is_onboarded": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil
	}

	return &auth.SessionUser{
		ID:          u.ID.Hex(),
		Name:        u.FullName,
		ProfilePic:  u.ProfilePic,
		IsOnboarded: u.IsOnboarded,
	}
}
