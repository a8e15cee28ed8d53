// internal/app/features/chat/handler.go
package chat

import (
	"net/http"

	"github.com/dalemusser/streamify/internal/app/stream"
	"github.com/dalemusser/streamify/internal/app/system/auth"
	"github.com/dalemusser/streamify/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Handler issues chat provider connection tokens to signed-in users.
type Handler struct {
	Provider stream.ChannelProvider
	Log      *zap.Logger
}

func NewHandler(provider stream.ChannelProvider, logger *zap.Logger) *Handler {
	return &Handler{Provider: provider, Log: logger}
}

// ServeToken handles GET /chat/token. The token is scoped to the caller's
// user id and lets the frontend open a websocket to the chat provider.
func (h *Handler) ServeToken(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please sign in")
		return
	}

	token, err := h.Provider.UserToken(u.ID)
	if err != nil {
		h.Log.Error("chat token issue failed", zap.String("user_id", u.ID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"token": token})
}
