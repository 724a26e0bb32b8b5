package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/report"
	"github.com/goodlyheritage/entrance-portal/internal/response"
)

// ReportHandler serves the student dashboard data and the printable
// documents: the exam slip and the score report.
type ReportHandler struct {
	client   *backend.Client
	exporter *report.Exporter
	log      zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(client *backend.Client, exporter *report.Exporter, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		client:   client,
		exporter: exporter,
		log:      log.With().Str("component", "report_handler").Logger(),
	}
}

// Dashboard godoc
// GET /api/v1/dashboard
// Returns the exam settings and the student's exam records so the UI can
// decide whether to offer the start-exam gate.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	token := middleware.GetToken(c)
	ctx := c.Request.Context()

	settings, err := h.client.ExamSettings(ctx, token)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	records, err := h.client.ExamRecords(ctx, token)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	hasPending := false
	for _, rec := range records {
		if !rec.Completed {
			hasPending = true
			break
		}
	}

	response.Success(c, http.StatusOK, gin.H{
		"settings":    settings,
		"records":     records,
		"has_pending": hasPending,
	})
}

// Slip godoc
// GET /api/v1/reports/slip.pdf
// Renders the candidate's exam slip as a PDF download.
func (h *ReportHandler) Slip(c *gin.Context) {
	token := middleware.GetToken(c)

	student, err := h.client.StudentProfile(c.Request.Context(), token)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	pdf, err := h.exporter.ExamSlip(*student)
	if err != nil {
		h.log.Error().Err(err).Msg("Slip export failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	servePDF(c, pdf, fmt.Sprintf("exam-slip-%s.pdf", orUnknown(student.ExamNumber)))
}

// Result godoc
// GET /api/v1/reports/result
// Returns the latest completed exam record with scored answers as JSON.
func (h *ReportHandler) Result(c *gin.Context) {
	token := middleware.GetToken(c)

	record, answers, err := h.client.LatestReport(c.Request.Context(), token)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"record":         record,
		"answers":        answers,
		"subject_scores": report.SubjectScores(answers),
	})
}

// Report godoc
// GET /api/v1/reports/result.pdf
// Renders the latest completed exam's score report as a PDF download.
func (h *ReportHandler) Report(c *gin.Context) {
	token := middleware.GetToken(c)
	ctx := c.Request.Context()

	student, err := h.client.StudentProfile(ctx, token)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	record, answers, err := h.client.LatestReport(ctx, token)
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	pdf, err := h.exporter.ScoreReport(*student, *record, answers)
	if err != nil {
		h.log.Error().Err(err).Msg("Score report export failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	servePDF(c, pdf, fmt.Sprintf("exam-report-%s.pdf", orUnknown(student.ExamNumber)))
}

func servePDF(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
