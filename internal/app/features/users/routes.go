// internal/app/features/users/routes.go
package users

import (
	"time"

	"github.com/dalemusser/streamify/internal/app/system/auth"
	"github.com/dalemusser/streamify/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// One window covers all mutations by a caller: sends, accepts, and
	// group creations share the budget.
	writeLimit := ratelimit.New(30, time.Minute)

	// Everything under /users requires an authenticated identity.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// DISCOVERY
		pr.Get("/", h.ServeRecommended)
		pr.Get("/friends", h.ServeFriends)

		// FRIEND REQUESTS
		pr.Get("/friend-requests", h.ServeFriendRequests)
		pr.Get("/outgoing-friend-requests", h.ServeOutgoingFriendRequests)

		// GROUPS
		pr.Get("/group-Gets", h.ServeMyGroups)

		pr.Group(func(mr chi.Router) {
			mr.Use(writeLimit.Middleware)

			mr.Post("/friend-request/{id}", h.HandleSendFriendRequest)
			mr.Put("/friend-request/{id}/accept", h.HandleAcceptFriendRequest)
			mr.Post("/group/create", h.HandleCreateGroup)
		})
	})

	return r
}
