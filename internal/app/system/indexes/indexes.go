// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureFriendRequests(ctx, db); err != nil {
		problems = append(problems, "friend_requests: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			// Recommendation queries filter on onboarding state.
			Keys:    bson.D{{Key: "is_onboarded", Value: 1}},
			Options: options.Index().SetName("by_onboarded"),
		},
	})
}

func ensureFriendRequests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("friend_requests"), []mongo.IndexModel{
		{
			// Backstop for the one-request-per-unordered-pair invariant.
			// The application checks both directions before inserting, but
			// that check and the insert are not atomic; this index closes
			// the race window.
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetName("uniq_pair").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "recipient", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("by_recipient_status"),
		},
		{
			Keys:    bson.D{{Key: "sender", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("by_sender_status"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			// A group never shares a remote channel with another group.
			// Sparse: the field is unset while the group is provisioning.
			Keys:    bson.D{{Key: "stream_channel_id", Value: 1}},
			Options: options.Index().SetName("uniq_stream_channel").SetUnique(true).SetSparse(true),
		},
		{
			// listGroupsForUser: membership filter, newest first.
			Keys:    bson.D{{Key: "members", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_member_created"),
		},
		{
			// Reconciler scan for stale provisioning markers.
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: 1}},
			Options: options.Index().SetName("by_status_updated"),
		},
	})
}

// ensureIndexSet creates each desired index, tolerating indexes that
// already exist. If an index with the same name exists under different
// options (IndexOptionsConflict), it is dropped and recreated so the
// desired options win.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}

		_, err := coll.Indexes().CreateOne(ctx, m)
		if err == nil {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", name))
			continue
		}

		if isOptionsConflictErr(err) && name != "" {
			zap.L().Info("recreating index with changed options",
				zap.String("collection", coll.Name()),
				zap.String("name", name))
			if _, dropErr := coll.Indexes().DropOne(ctx, name); dropErr != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, dropErr))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): recreate failed: %v", coll.Name(), name, err))
			}
			continue
		}

		errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with
// the same keys already exists under a different name or options.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 85 || ce.Code == 86) {
		return true
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict") ||
		strings.Contains(err.Error(), "IndexKeySpecsConflict")
}
