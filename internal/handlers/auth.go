package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/invoice-api/auth"
	"github.com/diewo77/invoice-api/httpx"
	"github.com/diewo77/invoice-api/internal/invoice"
	"github.com/diewo77/invoice-api/internal/logger"
	"github.com/diewo77/invoice-api/internal/models"
	"github.com/diewo77/invoice-api/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db       *gorm.DB
	sessions *auth.Sessions
	log      zerolog.Logger
}

func NewAuthHandler(db *gorm.DB, sessions *auth.Sessions, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions, log: logger.WithComponent(log, "auth_handler")}
}

// Register mounts the auth routes. Only /me requires a session.
func (h *AuthHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.Handle("GET /api/auth/me", protect(http.HandlerFunc(h.Me)))
}

// Resolve loads the identity for a session's user id. It implements auth.Resolver.
func (h *AuthHandler) Resolve(ctx context.Context, userID string) (invoice.Identity, bool) {
	var user models.User
	if err := h.db.WithContext(ctx).Select("id", "name", "email").Where("id = ?", userID).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.log.Error().Err(err).Str("user_id", userID).Msg("resolve session user")
		}
		return invoice.Identity{}, false
	}
	return invoice.Identity{UserID: user.ID, Name: user.Name, Email: user.Email}, true
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login: POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	var v validation.Violations
	validation.Required("email", email, &v)
	if !v.Has("email") {
		validation.Email("email", email, &v)
	}
	validation.Required("password", req.Password, &v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.log.Error().Err(err).Msg("login lookup failed")
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
		httpx.JSONErrorMessage(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httpx.JSONErrorMessage(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
		return
	}

	h.sessions.Create(w, user.ID)
	h.log.Info().Str("user_id", user.ID).Msg("user logged in")
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout: POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Clear(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me: GET /api/auth/me returns the current user with the default sender address.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	var user models.User
	if err := h.db.WithContext(r.Context()).Preload("DefaultAddress").Where("id = ?", who.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		h.log.Error().Err(err).Str("user_id", who.UserID).Msg("load current user")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	resp := map[string]any{"user": user}
	if user.DefaultAddress != nil {
		resp["senderAddress"] = user.DefaultAddress.FullAddress()
	}
	httpx.JSON(w, http.StatusOK, resp)
}
