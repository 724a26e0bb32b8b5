package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/model"
	"github.com/goodlyheritage/entrance-portal/internal/response"
	"github.com/goodlyheritage/entrance-portal/internal/session"
	"github.com/goodlyheritage/entrance-portal/internal/validator"
)

// AuthHandler proxies authentication to the backend and maintains the
// portal's session store.
type AuthHandler struct {
	client *backend.Client
	store  *session.Store
	log    zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(client *backend.Client, store *session.Store, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		client: client,
		store:  store,
		log:    log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/v1/auth/login
// Exchanges credentials for a backend-issued bearer token and registers the
// portal session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, user, err := h.client.Login(c.Request.Context(), req)
	if err != nil {
		failBackend(c, err, response.ErrInvalidCredentials)
		return
	}

	h.store.Put(&session.User{Token: token, Role: user.Role, Profile: *user})
	h.log.Info().Str("role", string(user.Role)).Msg("User logged in")

	response.Success(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout godoc
// POST /api/v1/auth/logout
// Drops the portal session. The backend token simply expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.store.Delete(middleware.GetToken(c))
	response.Success(c, http.StatusOK, gin.H{"status": "logged_out"})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated profile, preferring the session store cache.
func (h *AuthHandler) Me(c *gin.Context) {
	token := middleware.GetToken(c)

	if cached := h.store.Get(token); cached != nil {
		response.Success(c, http.StatusOK, gin.H{"user": cached.Profile})
		return
	}

	user, err := h.client.Me(c.Request.Context(), token)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	h.store.Put(&session.User{Token: token, Role: user.Role, Profile: *user})
	response.Success(c, http.StatusOK, gin.H{"user": user})
}
