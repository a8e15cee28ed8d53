// internal/app/store/friendrequests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/streamify/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicatePair is returned when a request already exists for the
	// unordered pair, in either direction.
	ErrDuplicatePair = errors.New("a friend request already exists between these users")

	// ErrNotPending is returned when accepting a request that is not in
	// the pending state. pending → accepted is the only legal transition.
	ErrNotPending = errors.New("friend request is not pending")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("friend_requests")}
}

// GetByID loads a request by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.FriendRequest, error) {
	var fr models.FriendRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&fr); err != nil {
		return models.FriendRequest{}, err
	}
	return fr, nil
}

// ExistsForPair reports whether any request exists for the unordered pair
// {a, b}, regardless of direction or status.
func (s *Store) ExistsForPair(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"pair_key": models.PairKey(a, b)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new pending request. The unique index on pair_key is
// the backstop against two concurrent proposals for the same pair; a
// duplicate-key error maps to ErrDuplicatePair.
func (s *Store) Create(ctx context.Context, sender, recipient primitive.ObjectID) (models.FriendRequest, error) {
	now := time.Now().UTC()
	fr := models.FriendRequest{
		ID:        primitive.NewObjectID(),
		Sender:    sender,
		Recipient: recipient,
		Status:    models.RequestPending,
		PairKey:   models.PairKey(sender, recipient),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, fr); err != nil {
		if wafflemongo.IsDup(err) {
			return models.FriendRequest{}, ErrDuplicatePair
		}
		return models.FriendRequest{}, err
	}
	return fr, nil
}

// MarkAccepted flips a pending request to accepted. The filter includes
// the pending status so a second accept of the same request (or an accept
// racing another) fails with ErrNotPending instead of rewriting state.
func (s *Store) MarkAccepted(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{
			"status":     models.RequestAccepted,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// IncomingPending returns pending requests addressed to the user,
// newest first.
func (s *Store) IncomingPending(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.list(ctx, bson.M{"recipient": userID, "status": models.RequestPending})
}

// OutgoingPending returns pending requests the user has sent, newest first.
func (s *Store) OutgoingPending(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.list(ctx, bson.M{"sender": userID, "status": models.RequestPending})
}

// AcceptedSent returns requests the user sent that were accepted,
// newest first.
func (s *Store) AcceptedSent(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.list(ctx, bson.M{"sender": userID, "status": models.RequestAccepted})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.FriendRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.FriendRequest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
