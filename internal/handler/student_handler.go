package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/model"
	"github.com/goodlyheritage/entrance-portal/internal/report"
	"github.com/goodlyheritage/entrance-portal/internal/response"
	"github.com/goodlyheritage/entrance-portal/internal/validator"
)

// StudentHandler is the admin candidate-management view.
type StudentHandler struct {
	client   *backend.Client
	exporter *report.Exporter
	log      zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(client *backend.Client, exporter *report.Exporter, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		client:   client,
		exporter: exporter,
		log:      log.With().Str("component", "student_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/admin/students
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.client.ListStudents(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"students": students, "count": len(students)})
}

// Register godoc
// POST /api/v1/admin/students
// Registers a candidate; the backend assigns the exam number.
func (h *StudentHandler) Register(c *gin.Context) {
	var req model.RegisterStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.client.RegisterStudent(c.Request.Context(), middleware.GetToken(c), req)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	h.log.Info().Str("exam_number", student.ExamNumber).Msg("Student registered")
	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// Slip godoc
// GET /api/v1/admin/students/:examNumber/slip.pdf
// Renders a candidate's exam slip for the admin office printer.
func (h *StudentHandler) Slip(c *gin.Context) {
	examNumber := c.Param("examNumber")

	students, err := h.client.ListStudents(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	for _, student := range students {
		if student.ExamNumber != examNumber {
			continue
		}
		pdf, err := h.exporter.ExamSlip(student)
		if err != nil {
			h.log.Error().Err(err).Str("exam_number", examNumber).Msg("Slip export failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		servePDF(c, pdf, "exam-slip-"+examNumber+".pdf")
		return
	}

	response.Fail(c, http.StatusNotFound, response.ErrNotFound)
}
