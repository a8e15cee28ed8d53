package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/streamify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an onboarded test user with the given name.
func (f *Fixtures) CreateUser(ctx context.Context, fullName string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:               primitive.NewObjectID(),
		FullName:         fullName,
		Email:            fullName + "@test.com",
		ProfilePic:       "https://avatar.test/" + fullName + ".png",
		NativeLanguage:   "english",
		LearningLanguage: "spanish",
		Location:         "Test City",
		IsOnboarded:      true,
		Friends:          []primitive.ObjectID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateUnonboardedUser creates a test user that has not completed
// onboarding, so discovery should not recommend them.
func (f *Fixtures) CreateUnonboardedUser(ctx context.Context, fullName string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, fullName)
	_, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		bson.M{"$set": bson.M{"is_onboarded": false}})
	if err != nil {
		f.t.Fatalf("failed to mark user un-onboarded: %v", err)
	}
	u.IsOnboarded = false
	return u
}

// MakeFriends links two existing users as friends in both directions.
func (f *Fixtures) MakeFriends(ctx context.Context, a, b models.User) {
	f.t.Helper()

	users := f.db.Collection("users")
	if _, err := users.UpdateByID(ctx, a.ID, bson.M{"$addToSet": bson.M{"friends": b.ID}}); err != nil {
		f.t.Fatalf("failed to link friends: %v", err)
	}
	if _, err := users.UpdateByID(ctx, b.ID, bson.M{"$addToSet": bson.M{"friends": a.ID}}); err != nil {
		f.t.Fatalf("failed to link friends: %v", err)
	}
}

// CreateFriendRequest inserts a friend request with the given status.
func (f *Fixtures) CreateFriendRequest(ctx context.Context, sender, recipient models.User, status string) models.FriendRequest {
	f.t.Helper()

	now := time.Now().UTC()
	fr := models.FriendRequest{
		ID:        primitive.NewObjectID(),
		Sender:    sender.ID,
		Recipient: recipient.ID,
		Status:    status,
		PairKey:   models.PairKey(sender.ID, recipient.ID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("friend_requests").InsertOne(ctx, fr); err != nil {
		f.t.Fatalf("failed to create test friend request: %v", err)
	}

	return fr
}

// CreateGroup inserts an active group with a backing channel id.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, createdBy models.User, members ...models.User) models.Group {
	f.t.Helper()

	ids := make([]primitive.ObjectID, 0, len(members)+1)
	ids = append(ids, createdBy.ID)
	for _, m := range members {
		ids = append(ids, m.ID)
	}

	now := time.Now().UTC()
	g := models.Group{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Members:         ids,
		CreatedBy:       createdBy.ID,
		StreamChannelID: primitive.NewObjectID().Hex(),
		Status:          models.GroupActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	return g
}
