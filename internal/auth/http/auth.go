package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lari/bloggerhub/internal/auth/domain"
	"github.com/lari/bloggerhub/internal/auth/service"
	"github.com/lari/bloggerhub/pkg/httpx"
	"github.com/lari/bloggerhub/pkg/slogx"
	"github.com/lari/bloggerhub/pkg/validate"
)

const maxRequestBody = 64 << 10 // 64 KiB is plenty for any auth payload

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

type signupRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=32"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Bio            string `json:"bio" validate:"omitempty,max=512"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,url"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type signupResponse struct {
	Success    bool         `json:"success"`
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	User       UserResponse `json:"user"`
	// a fresh signup opens its first session, same as login
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// HandleSignup serves POST /api/auth/signup.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, pair, err := h.AuthService.Signup(r.Context(), service.SignupParams{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			writeError(w, http.StatusConflict, "Username is already taken")
		case errors.Is(err, service.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "Email is already registered")
		default:
			slogx.FromContext(r.Context()).Error("signup failed", slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, signupResponse{
		Success:      true,
		StatusCode:   http.StatusCreated,
		Message:      "Account created",
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleLogin serves POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		slogx.FromContext(r.Context()).Error("login failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleLogout serves POST /api/auth/logout. A token whose record is
// already gone gets the same 401 a forged one would.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.writeTokenError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Logged out")
}

// HandleLogoutAll serves POST /api/auth/logout-all.
func (h *AuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.LogoutAll(r.Context(), req.RefreshToken); err != nil {
		h.writeTokenError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Logged out everywhere")
}

// HandleAccessToken serves POST /api/auth/access-token: exchanges a
// live refresh token for a fresh access token. The refresh token comes
// back unchanged.
func (h *AuthHandler) HandleAccessToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	pair, err := h.AuthService.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeTokenError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleRefreshToken serves POST /api/auth/refresh-token: rotates the
// presented refresh token, killing the old one, and returns a full new
// pair.
func (h *AuthHandler) HandleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	pair, err := h.AuthService.RotateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeTokenError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// writeTokenError maps service failures on token endpoints. Forged and
// revoked tokens get the identical 401; anything else is a 500.
func (h *AuthHandler) writeTokenError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidToken) {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	slogx.FromContext(r.Context()).Error("token operation failed", slog.Any("err", err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeRequest parses and validates a JSON body. It writes the error
// response itself and reports whether the handler should continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs *validate.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeErrorDetail(w, http.StatusBadRequest, "Validation failed", fieldErrs.Fields())
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed")
		return false
	}
	return true
}

func toUserResponse(u domain.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, role.String())
	}
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		Verified:       u.Verified,
		Roles:          roles,
	}
}
