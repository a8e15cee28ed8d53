// internal/app/features/users/requests.go
package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/streamify/internal/app/relationship"
	"github.com/dalemusser/streamify/internal/app/system/httpjson"
	"github.com/dalemusser/streamify/internal/app/system/timeouts"
	"github.com/dalemusser/streamify/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// incomingView is an incoming request with the sender resolved; the
// caller is always the recipient, so only the sender needs display data.
type incomingView struct {
	ID        primitive.ObjectID `json:"id"`
	Sender    models.Profile     `json:"sender"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// outgoingView is a request the caller sent, with the recipient resolved.
type outgoingView struct {
	ID        primitive.ObjectID `json:"id"`
	Recipient models.Profile     `json:"recipient"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// HandleSendFriendRequest handles POST /users/friend-request/{id}.
func (h *Handler) HandleSendFriendRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	recipient, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid recipient id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fr, err := h.Relationships.Propose(ctx, caller, recipient)
	if err != nil {
		switch {
		case errors.Is(err, relationship.ErrSelfRequest),
			errors.Is(err, relationship.ErrAlreadyFriends),
			errors.Is(err, relationship.ErrDuplicateRequest):
			httpjson.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, relationship.ErrRecipientNotFound):
			httpjson.Error(w, http.StatusNotFound, err.Error())
		default:
			h.Log.Error("send friend request failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	httpjson.Respond(w, http.StatusCreated, fr)
}

// HandleAcceptFriendRequest handles PUT /users/friend-request/{id}/accept.
func (h *Handler) HandleAcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	reqID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Friend request not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Relationships.Accept(ctx, reqID, caller); err != nil {
		switch {
		case errors.Is(err, relationship.ErrRequestNotFound):
			httpjson.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, relationship.ErrNotAuthorized):
			httpjson.Error(w, http.StatusForbidden, err.Error())
		default:
			h.Log.Error("accept friend request failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "Friend request accepted"})
}

// ServeFriendRequests handles GET /users/friend-requests: pending
// requests addressed to the caller, plus requests the caller sent that
// were accepted (so the frontend can show "X accepted your request").
func (h *Handler) ServeFriendRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	incoming, err := h.Relationships.IncomingPending(ctx, caller)
	if err != nil {
		h.Log.Error("friend requests: incoming load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	accepted, err := h.Relationships.AcceptedSent(ctx, caller)
	if err != nil {
		h.Log.Error("friend requests: accepted load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	resp := struct {
		IncomingReqs []incomingView `json:"incomingReqs"`
		AcceptedReqs []outgoingView `json:"acceptedReqs"`
	}{
		IncomingReqs: make([]incomingView, 0, len(incoming)),
		AcceptedReqs: make([]outgoingView, 0, len(accepted)),
	}
	for _, rp := range incoming {
		resp.IncomingReqs = append(resp.IncomingReqs, incomingView{
			ID:        rp.Request.ID,
			Sender:    rp.Profile,
			Status:    rp.Request.Status,
			CreatedAt: rp.Request.CreatedAt,
		})
	}
	for _, rp := range accepted {
		resp.AcceptedReqs = append(resp.AcceptedReqs, outgoingView{
			ID:        rp.Request.ID,
			Recipient: rp.Profile,
			Status:    rp.Request.Status,
			CreatedAt: rp.Request.CreatedAt,
		})
	}

	httpjson.Respond(w, http.StatusOK, resp)
}

// ServeOutgoingFriendRequests handles GET /users/outgoing-friend-requests.
func (h *Handler) ServeOutgoingFriendRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	outgoing, err := h.Relationships.OutgoingPending(ctx, caller)
	if err != nil {
		h.Log.Error("outgoing friend requests load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	views := make([]outgoingView, 0, len(outgoing))
	for _, rp := range outgoing {
		views = append(views, outgoingView{
			ID:        rp.Request.ID,
			Recipient: rp.Profile,
			Status:    rp.Request.Status,
			CreatedAt: rp.Request.CreatedAt,
		})
	}

	httpjson.Respond(w, http.StatusOK, views)
}
