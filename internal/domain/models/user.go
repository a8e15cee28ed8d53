// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a language-learning partner.
//
// NOTE:
//   - Friends is the symmetric friend-set: if A appears in B's set,
//     B must appear in A's set. It is mutated only by the friend-request
//     state machine (see internal/app/relationship).
//   - Credentials are not stored here; signup and credential verification
//     live in the external identity service.
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FullName         string               `bson:"full_name" json:"fullName"`
	Email            string               `bson:"email" json:"email"`
	Bio              string               `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePic       string               `bson:"profile_pic,omitempty" json:"profilePic,omitempty"`
	NativeLanguage   string               `bson:"native_language,omitempty" json:"nativeLanguage,omitempty"`
	LearningLanguage string               `bson:"learning_language,omitempty" json:"learningLanguage,omitempty"`
	Location         string               `bson:"location,omitempty" json:"location,omitempty"`
	IsOnboarded      bool                 `bson:"is_onboarded" json:"isOnboarded"`
	Friends          []primitive.ObjectID `bson:"friends" json:"friends"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Profile is the display projection of a user handed back by list
// endpoints: no email, no friend-set, no flags.
type Profile struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	FullName         string             `bson:"full_name" json:"fullName"`
	ProfilePic       string             `bson:"profile_pic,omitempty" json:"profilePic,omitempty"`
	NativeLanguage   string             `bson:"native_language,omitempty" json:"nativeLanguage,omitempty"`
	LearningLanguage string             `bson:"learning_language,omitempty" json:"learningLanguage,omitempty"`
	Location         string             `bson:"location,omitempty" json:"location,omitempty"`
}
