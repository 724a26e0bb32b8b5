package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/report"
	"github.com/goodlyheritage/entrance-portal/internal/response"
)

// ResultHandler is the admin results view with XLSX export.
type ResultHandler struct {
	client   *backend.Client
	exporter *report.Exporter
	log      zerolog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(client *backend.Client, exporter *report.Exporter, log zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		client:   client,
		exporter: exporter,
		log:      log.With().Str("component", "result_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/admin/results
func (h *ResultHandler) List(c *gin.Context) {
	results, err := h.client.ListResults(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// Export godoc
// GET /api/v1/admin/results/export.xlsx
// Streams the full results list as an XLSX workbook.
func (h *ResultHandler) Export(c *gin.Context) {
	results, err := h.client.ListResults(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		failBackend(c, err, response.ErrTokenInvalid)
		return
	}

	workbook, err := h.exporter.ResultsWorkbook(results)
	if err != nil {
		h.log.Error().Err(err).Msg("Results workbook export failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := "exam-results-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
