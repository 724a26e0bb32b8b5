package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/exam"
	"github.com/goodlyheritage/entrance-portal/internal/response"
)

// failBackend translates errors from the backend client into the portal's
// error envelope. authCode is used for 401/403 answers from the backend so
// that login failures and expired tokens keep their own codes.
func failBackend(c *gin.Context, err error, authCode response.ErrCode) {
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, backend.ErrTokenRequired):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	case errors.Is(err, backend.ErrMalformedResponse):
		response.Fail(c, http.StatusBadGateway, response.ErrMalformedResponse)
	case errors.Is(err, backend.ErrUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrBackendUnavailable)
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			response.Fail(c, apiErr.Status, authCode)
		case http.StatusNotFound:
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrBackendUnavailable)
		}
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// failSubmission maps a failed submit or cancel onto its flow-specific
// error code, keeping backend transport failures distinguishable.
func failSubmission(c *gin.Context, err error, code response.ErrCode) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, backend.ErrUnavailable),
		errors.Is(err, backend.ErrMalformedResponse),
		errors.Is(err, backend.ErrTokenRequired),
		errors.As(err, &apiErr):
		failBackend(c, err, response.ErrTokenInvalid)
	default:
		response.Fail(c, http.StatusBadGateway, code)
	}
}

// failExam translates exam session errors into the portal's error envelope.
func failExam(c *gin.Context, err error) {
	switch {
	case errors.Is(err, exam.ErrNoActiveExam):
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveExam)
	case errors.Is(err, exam.ErrFinished):
		response.Fail(c, http.StatusConflict, response.ErrSessionFinished)
	case errors.Is(err, exam.ErrUnknownQuestion), errors.Is(err, exam.ErrOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrPositionOutOfRange)
	case errors.Is(err, exam.ErrNotPrompted):
		response.Fail(c, http.StatusConflict, response.ErrValidation)
	default:
		failBackend(c, err, response.ErrTokenInvalid)
	}
}
