package handlers

import (
	"net/http"

	"github.com/timecapsule-app/timecapsule-backend/internal/response"
	"github.com/timecapsule-app/timecapsule-backend/internal/services"
	"github.com/timecapsule-app/timecapsule-backend/internal/validation"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required,min=10"`
}

// AuthHandler translates the /users routes into auth service calls.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validation.Body(r.Body, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusCreated, user, "User registered")
}

// Login handles POST /users/login and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validation.Body(r.Body, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	http.SetCookie(w, h.auth.SessionCookie(token))
	response.WriteSuccess(w, http.StatusOK, user, "Login successful")
}

// Logout handles GET /users/logout. It is idempotent: the cookie is cleared
// whether or not a session was present.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.auth.ClearedSessionCookie())
	response.WriteSuccess(w, http.StatusOK, nil, "Logged out successfully")
}

// VerifyEmail handles POST /users/verifyEmail.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := validation.Body(r.Body, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	alreadyVerified, err := h.auth.Verify(r.Context(), req.Token)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	if alreadyVerified {
		response.WriteSuccess(w, http.StatusOK, nil, "User already verified")
		return
	}
	response.WriteSuccess(w, http.StatusOK, nil, "User verified successfully")
}

// Me handles GET /users/me. The token service does its own verification so
// the route is not behind the gate; a missing cookie surfaces as the token
// service's "Token missing".
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(services.CookieName); err == nil {
		token = cookie.Value
	}

	user, err := h.auth.Me(r.Context(), token)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, user, "User fetched")
}
