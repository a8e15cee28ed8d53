// internal/app/store/groups/groupstore.go
package groupstore

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

// ErrDuplicateChannel is returned when committing a group with a
// stream_channel_id another group already holds.
var ErrDuplicateChannel = errors.New("another group already uses this channel")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// GetByID loads a group by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// InsertProvisioning writes the provisional group marker: the saga record
// that exists while the remote channel is being created. The channel id
// the workflow intends to use is recorded up front so the reconciler can
// tear down the remote side if the process dies before commit; claiming
// it here also lets the unique index reject a channel-id collision before
// any provider call is made.
func (s *Store) InsertProvisioning(ctx context.Context, name string, members []primitive.ObjectID, createdBy primitive.ObjectID, channelID string) (models.Group, error) {
	now := time.Now().UTC()
	g := models.Group{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Members:         members,
		CreatedBy:       createdBy,
		StreamChannelID: channelID,
		Status:          models.GroupProvisioning,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateChannel
		}
		return models.Group{}, err
	}
	return g, nil
}

// Commit promotes a provisioning marker to an active group, recording the
// channel id the provider actually returned. This is the last write of
// the provisioning workflow.
func (s *Store) Commit(ctx context.Context, id primitive.ObjectID, channelID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.GroupProvisioning},
		bson.M{"$set": bson.M{
			"stream_channel_id": channelID,
			"status":            models.GroupActive,
			"updated_at":        time.Now().UTC(),
		}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateChannel
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a group document. Used to compensate a failed
// provisioning attempt. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListActiveForUser returns active groups containing the user, newest
// created first.
func (s *Store) ListActiveForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	filter := bson.M{"members": userID, "status": models.GroupActive}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Group{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StaleProvisioning returns provisioning markers that have not been
// touched since the cutoff: provisioning attempts whose process died
// between channel creation and commit, or mid-sync.
func (s *Store) StaleProvisioning(ctx context.Context, cutoff time.Time) ([]models.Group, error) {
	filter := bson.M{
		"status":     models.GroupProvisioning,
		"updated_at": bson.M{"$lt": cutoff},
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Group{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountAll returns the total number of group documents. Test helper.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
