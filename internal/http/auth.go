package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/internal/service"
	"github.com/potluckhq/potluck/pkg/api"
	"github.com/potluckhq/potluck/pkg/httpx"
	"github.com/potluckhq/potluck/pkg/slogx"
)

// Passwords shorter than this are rejected before the service is called.
const minPasswordLength = 8

// AuthHandler serves the registration and login endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister handles POST /v1/auth/register.
//
// Creates an unconfirmed account and emails a confirmation link. Returns the
// created user without credential material.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		httpx.WriteError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	user, err := h.AuthService.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpx.WriteError(w, http.StatusConflict, "email already registered")
			return
		}
		log.Error("registration failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleConfirm handles GET /v1/auth/confirm?token=...
func (h *AuthHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing token parameter")
		return
	}

	if err := h.AuthService.ConfirmEmail(ctx, token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		log.Error("email confirmation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, api.ConfirmResponse{Message: "email confirmed"})
}

// HandleLogin handles POST /v1/auth/login.
//
// A successful password check does not issue a token. It emails a 6-digit
// code and tells the caller to complete the flow via the verify-2fa endpoint.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	email, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, service.ErrEmailNotConfirmed):
			httpx.WriteError(w, http.StatusUnauthorized, "email not confirmed")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, api.LoginResponse{
		Message: "two-factor code sent",
		Email:   email,
	})
}

// HandleVerifyTwoFactor handles POST /v1/auth/verify-2fa.
func (h *AuthHandler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.TwoFactorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || !isSixDigits(req.Code) {
		httpx.WriteError(w, http.StatusBadRequest, "email and 6-digit code are required")
		return
	}

	token, err := h.AuthService.VerifyTwoFactor(ctx, req.Email, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid or expired 2FA code")
			return
		}
		log.Error("two-factor verification failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, api.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.AuthService.AccessTTL.Seconds()),
	})
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func toUserResponse(u domain.User) api.UserResponse {
	return api.UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Roles:          domain.JoinRoles(u.Roles),
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}
