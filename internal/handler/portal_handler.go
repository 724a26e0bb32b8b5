package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/exam"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/render"
	"github.com/goodlyheritage/entrance-portal/internal/response"
	"github.com/goodlyheritage/entrance-portal/internal/session"
	"github.com/goodlyheritage/entrance-portal/internal/validator"
)

// PortalHandler drives the in-progress exam flow: starting a session,
// answering and navigating, submission, cancellation, and the exit guard.
type PortalHandler struct {
	controller *exam.Controller
	registry   *session.ExamRegistry
	renderer   *render.Renderer
	log        zerolog.Logger
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(controller *exam.Controller, registry *session.ExamRegistry, renderer *render.Renderer, log zerolog.Logger) *PortalHandler {
	return &PortalHandler{
		controller: controller,
		registry:   registry,
		renderer:   renderer,
		log:        log.With().Str("component", "portal_handler").Logger(),
	}
}

// examView is a session snapshot with the current question's content already
// rendered for display.
type examView struct {
	exam.View
	RenderedQuestion render.Rendered   `json:"rendered_question"`
	RenderedOptions  []render.Rendered `json:"rendered_options"`
}

func (h *PortalHandler) view(sess *exam.Session) examView {
	snap := sess.Snapshot()
	options := make([]render.Rendered, len(snap.Question.Options))
	for i, opt := range snap.Question.Options {
		options[i] = h.renderer.Render(opt, render.ContextOption)
	}
	return examView{
		View:             snap,
		RenderedQuestion: h.renderer.Render(snap.Question.Text, render.ContextQuestion),
		RenderedOptions:  options,
	}
}

// session resolves the caller's live exam session. A missing session answers
// 404 NO_ACTIVE_EXAM and returns nil.
func (h *PortalHandler) session(c *gin.Context) *exam.Session {
	claims := middleware.GetClaims(c)
	sess := h.registry.Get(claims.Email)
	if sess == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveExam)
		return nil
	}
	return sess
}

// Start godoc
// POST /api/v1/exam/session
// Assembles the pending exam into a session and starts its countdown. A user
// with a live session gets 409; a finished one is replaced.
func (h *PortalHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	token := middleware.GetToken(c)

	sess, err := h.controller.Begin(c.Request.Context(), token)
	if err != nil {
		failExam(c, err)
		return
	}

	if err := h.registry.Attach(claims.Email, sess); err != nil {
		sess.Close()
		response.Fail(c, http.StatusConflict, response.ErrSessionInProgress)
		return
	}

	h.log.Info().Str("exam_id", sess.ExamID()).Str("user", claims.Email).Msg("Exam session started")
	response.Success(c, http.StatusCreated, h.view(sess))
}

// Get godoc
// GET /api/v1/exam/session
// Returns the current session snapshot with rendered content.
func (h *PortalHandler) Get(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	response.Success(c, http.StatusOK, h.view(sess))
}

type answerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// Answer godoc
// PUT /api/v1/exam/session/answer
// Records the selected option for a question.
func (h *PortalHandler) Answer(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	var req answerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := sess.Answer(req.QuestionID, req.Answer); err != nil {
		failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(sess))
}

type navigateRequest struct {
	Direction exam.Direction `json:"direction" binding:"required,oneof=prev next"`
}

// Navigate godoc
// POST /api/v1/exam/session/navigate
// Moves one question forward or back, clamped at both ends.
func (h *PortalHandler) Navigate(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	var req navigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := sess.Navigate(req.Direction); err != nil {
		failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(sess))
}

type jumpRequest struct {
	Position *int `json:"position" binding:"required"`
}

// Jump godoc
// POST /api/v1/exam/session/jump
// Sets the current position directly from the overview panel.
func (h *PortalHandler) Jump(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	var req jumpRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := sess.JumpTo(*req.Position); err != nil {
		failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(sess))
}

// Submit godoc
// POST /api/v1/exam/session/submit
// Sends the accumulated answers to the backend. A submission already in
// flight is acknowledged without a second network call.
func (h *PortalHandler) Submit(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	if err := sess.Submit(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, exam.ErrSubmitInFlight):
			response.Success(c, http.StatusAccepted, gin.H{"state": sess.CurrentState()})
		case errors.Is(err, exam.ErrFinished):
			response.Fail(c, http.StatusConflict, response.ErrSessionFinished)
		default:
			h.log.Error().Err(err).Str("exam_id", sess.ExamID()).Msg("Exam submit failed")
			failSubmission(c, err, response.ErrSubmitFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": exam.StateSubmitted})
}

// Cancel godoc
// POST /api/v1/exam/session/cancel
// Abandons the attempt; the backend discards it.
func (h *PortalHandler) Cancel(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	if err := sess.Cancel(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, exam.ErrSubmitInFlight):
			response.Fail(c, http.StatusConflict, response.ErrSessionInProgress)
		case errors.Is(err, exam.ErrFinished):
			response.Fail(c, http.StatusConflict, response.ErrSessionFinished)
		default:
			h.log.Error().Err(err).Str("exam_id", sess.ExamID()).Msg("Exam cancel failed")
			failSubmission(c, err, response.ErrCancelFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": exam.StateCancelled})
}

// RequestExit godoc
// POST /api/v1/exam/session/exit
// Registers a navigation-away attempt and returns the prompt variant the UI
// should show.
func (h *PortalHandler) RequestExit(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	state, err := sess.RequestExit()
	if err != nil {
		failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// Resume godoc
// POST /api/v1/exam/session/resume
// Dismisses a pending exit prompt and returns to the exam.
func (h *PortalHandler) Resume(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	if err := sess.Resume(); err != nil {
		failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(sess))
}

// ConfirmExit godoc
// POST /api/v1/exam/session/exit/confirm
// Resolves a pending exit prompt: cancel when nothing was answered, submit
// otherwise.
func (h *PortalHandler) ConfirmExit(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	state, err := sess.ConfirmExit(c.Request.Context())
	if err != nil {
		failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state})
}
