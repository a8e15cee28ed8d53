// internal/app/features/chat/routes.go
package chat

import (
	"github.com/dalemusser/streamify/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/token", h.ServeToken)
	})

	return r
}
