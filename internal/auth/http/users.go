package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lari/bloggerhub/internal/auth/service"
	"github.com/lari/bloggerhub/pkg/httpx"
	"github.com/lari/bloggerhub/pkg/slogx"
)

// UsersHandler serves the read-only /api/users surface. Both endpoints
// sit behind the identity middleware plus an authorization boundary, so
// an identity is guaranteed to be present by the time they run.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleMe serves GET /api/users/me.
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		slogx.FromContext(r.Context()).Error("profile lookup failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleList serves GET /api/users. Admin only.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("user listing failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
