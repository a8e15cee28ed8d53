// internal/app/features/users/groups.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/streamify/internal/app/provision"
	"github.com/dalemusser/streamify/internal/app/system/htmlsanitize"
	"github.com/dalemusser/streamify/internal/app/system/httpjson"
	"github.com/dalemusser/streamify/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// HandleCreateGroup handles POST /users/group/create. The member list in
// the body is hex user ids; the caller must appear in it and every other
// member must already be a friend of the caller.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var body createGroupRequest
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	members := make([]primitive.ObjectID, 0, len(body.Members))
	for _, raw := range body.Members {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid member id")
			return
		}
		members = append(members, id)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	group, err := h.Provisioner.CreateGroup(ctx, caller, htmlsanitize.Plain(body.Name), members)
	if err != nil {
		switch {
		case errors.Is(err, provision.ErrInvalidGroupData):
			httpjson.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, provision.ErrForbiddenMembership):
			httpjson.Error(w, http.StatusForbidden, err.Error())
		default:
			h.Log.Error("create group failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	httpjson.Respond(w, http.StatusCreated, group)
}

// ServeMyGroups handles GET /users/group-Gets, listing the caller's
// active groups newest first with member profiles resolved.
func (h *Handler) ServeMyGroups(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Provisioner.ListGroupsForUser(ctx, caller)
	if err != nil {
		h.Log.Error("list groups failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	httpjson.Respond(w, http.StatusOK, groups)
}
