// internal/app/features/users/discovery.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/streamify/internal/app/system/httpjson"
	"github.com/dalemusser/streamify/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeRecommended handles GET /users: onboarded users the caller is not
// already friends with, as partner recommendations.
func (h *Handler) ServeRecommended(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	friendIDs, err := h.Users.FriendIDs(ctx, caller)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("recommended: friend-set load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	recs, err := h.Users.Recommended(ctx, caller, friendIDs)
	if err != nil {
		h.Log.Error("recommended: query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	httpjson.Respond(w, http.StatusOK, recs)
}

// ServeFriends handles GET /users/friends: the caller's friend-set
// resolved to display projections.
func (h *Handler) ServeFriends(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	friends, err := h.Users.FriendProfiles(ctx, caller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("friends: load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	httpjson.Respond(w, http.StatusOK, friends)
}
