package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/model"
	"github.com/goodlyheritage/entrance-portal/internal/response"
	"github.com/goodlyheritage/entrance-portal/internal/validator"
)

// SettingHandler is the admin view over exam settings: duration and
// per-subject question quotas.
type SettingHandler struct {
	client *backend.Client
	log    zerolog.Logger
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(client *backend.Client, log zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		client: client,
		log:    log.With().Str("component", "setting_handler").Logger(),
	}
}

// Get godoc
// GET /api/v1/admin/settings
func (h *SettingHandler) Get(c *gin.Context) {
	settings, err := h.client.ExamSettings(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// Update godoc
// PUT /api/v1/admin/settings
func (h *SettingHandler) Update(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.client.UpdateSettings(c.Request.Context(), middleware.GetToken(c), req); err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	h.log.Info().Int("duration_minutes", req.DurationMinutes).Msg("Exam settings updated")
	response.Success(c, http.StatusOK, gin.H{"status": "updated"})
}
