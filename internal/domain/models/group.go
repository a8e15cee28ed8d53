// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group statuses. A group is inserted as "provisioning" before the remote
// channel exists and promoted to "active" once the channel has been
// created. Stale provisioning markers are cleaned up by the reconciler.
const (
	GroupProvisioning = "provisioning"
	GroupActive       = "active"
)

// Group is a multi-party conversation backed by a remote Stream channel.
//
// NOTE:
//   - Members always lists the creator first, followed by the invited
//     friends, in the order they were named at creation time.
//   - StreamChannelID is unique across groups (sparse unique index; the
//     field is unset while the group is still provisioning).
//   - Membership is fixed at creation; there is no invite or edit flow.
type Group struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string               `bson:"name" json:"name"`
	Members         []primitive.ObjectID `bson:"members" json:"members"`
	CreatedBy       primitive.ObjectID   `bson:"created_by" json:"createdBy"`
	StreamChannelID string               `bson:"stream_channel_id,omitempty" json:"streamChannelId,omitempty"`
	Status          string               `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
