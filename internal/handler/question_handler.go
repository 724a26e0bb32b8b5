package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/model"
	"github.com/goodlyheritage/entrance-portal/internal/render"
	"github.com/goodlyheritage/entrance-portal/internal/response"
	"github.com/goodlyheritage/entrance-portal/internal/validator"
)

// QuestionHandler is the admin question-bank view: a thin proxy over the
// backend with rendered previews for the editor.
type QuestionHandler struct {
	client   *backend.Client
	renderer *render.Renderer
	log      zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(client *backend.Client, renderer *render.Renderer, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		client:   client,
		renderer: renderer,
		log:      log.With().Str("component", "question_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/admin/questions
// Lists the question bank with correct answers included.
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.client.ListQuestions(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions, "count": len(questions)})
}

// Create godoc
// POST /api/v1/admin/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req model.SaveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.client.CreateQuestion(c.Request.Context(), middleware.GetToken(c), req)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	h.log.Info().Str("question_id", question.ID).Str("subject", string(question.Subject)).Msg("Question created")
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Update godoc
// PUT /api/v1/admin/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req model.SaveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.client.UpdateQuestion(c.Request.Context(), middleware.GetToken(c), id, req); err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	h.log.Info().Str("question_id", id).Msg("Question updated")
	response.Success(c, http.StatusOK, gin.H{"status": "updated"})
}

// Delete godoc
// DELETE /api/v1/admin/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.client.DeleteQuestion(c.Request.Context(), middleware.GetToken(c), id); err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	h.log.Info().Str("question_id", id).Msg("Question deleted")
	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

type previewRequest struct {
	Content string `json:"content" binding:"required"`
}

// Preview godoc
// POST /api/v1/admin/questions/preview
// Renders raw editor content so the admin can check math and formatting
// before saving.
func (h *QuestionHandler) Preview(c *gin.Context) {
	var req previewRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"preview": h.renderer.Render(req.Content, render.ContextQuestion),
	})
}
