// internal/domain/models/friendrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend-request statuses. A request only ever moves pending → accepted;
// there is no rejected or cancelled state.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
)

// FriendRequest records one proposed relationship between two users.
// At most one document may exist per unordered pair {sender, recipient},
// regardless of direction. PairKey is the sorted "loID:hiID" form of the
// pair and carries a unique index as the backstop for that invariant.
type FriendRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Status    string             `bson:"status" json:"status"` // pending | accepted
	PairKey   string             `bson:"pair_key" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// PairKey returns the canonical unordered-pair key for two user IDs.
func PairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah < bh {
		return ah + ":" + bh
	}
	return bh + ":" + ah
}
