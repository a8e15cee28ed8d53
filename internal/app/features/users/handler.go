// internal/app/features/users/handler.go
package users

import (
	"net/http"

	"github.com/dalemusser/streamify/internal/app/provision"
	"github.com/dalemusser/streamify/internal/app/relationship"
	userstore "github.com/dalemusser/streamify/internal/app/store/users"
	"github.com/dalemusser/streamify/internal/app/system/auth"
	"github.com/dalemusser/streamify/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the users feature:
// partner discovery, the friend-request state machine, and group
// provisioning. The relationship service and provisioner are injected
// from bootstrap so the provider adapter has a single owner.
type Handler struct {
	Users         *userstore.Store
	Relationships *relationship.Service
	Provisioner   *provision.Provisioner
	Log           *zap.Logger
}

// NewHandler constructs the users feature Handler.
func NewHandler(users *userstore.Store, rel *relationship.Service, prov *provision.Provisioner, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         users,
		Relationships: rel,
		Provisioner:   prov,
		Log:           logger,
	}
}

// callerID resolves the authenticated caller to an ObjectID. A session
// user with a malformed ID means the identity layer misbehaved; treat it
// as unauthenticated.
func callerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please sign in")
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please sign in")
		return primitive.NilObjectID, false
	}
	return oid, true
}
