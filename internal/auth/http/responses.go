package http

import (
	"net/http"

	"github.com/lari/bloggerhub/pkg/httpx"
)

// SuccessResponse is the envelope for operations that return no payload
// beyond an acknowledgement (logout, logout-all).
type SuccessResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ErrorResponse is the envelope for every failed request. Error carries
// detail (field validation errors, etc) and is omitted when empty.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      any    `json:"error,omitempty"`
}

// TokenResponse carries tokens back to the client. The access-token
// refresh flow echoes the presented refresh token unchanged; rotation
// replaces it.
type TokenResponse struct {
	UserID       string `json:"userId,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// UserResponse is the public projection of an account. The password
// hash never leaves the service.
type UserResponse struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Bio            string   `json:"bio,omitempty"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	Verified       bool     `json:"verified"`
	Roles          []string `json:"roles"`
}

func writeSuccess(w http.ResponseWriter, status int, message string) {
	httpx.WriteJSON(w, status, SuccessResponse{
		Success:    true,
		StatusCode: status,
		Message:    message,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	httpx.WriteJSON(w, status, ErrorResponse{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

func writeErrorDetail(w http.ResponseWriter, status int, message string, detail any) {
	httpx.WriteJSON(w, status, ErrorResponse{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Error:      detail,
	})
}
