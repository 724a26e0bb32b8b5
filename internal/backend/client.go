// Package backend is the typed HTTP client for the examination REST backend.
// The backend owns all persistence (students, questions, results, settings);
// the portal talks to it exclusively through this client, one bearer token
// per call.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/config"
)

// Sentinel errors surfaced to callers. Handlers translate these into
// response.ErrCode values.
var (
	// ErrTokenRequired is returned before any network call is attempted
	// when an authenticated endpoint is invoked without a token.
	ErrTokenRequired = errors.New("authentication token required")

	// ErrMalformedResponse is returned when the backend reply matches
	// neither of the known envelope shapes.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrUnavailable is returned when the backend cannot be reached after
	// all retry attempts.
	ErrUnavailable = errors.New("backend unavailable")
)

// APIError is a non-2xx reply from the backend carrying its own message.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the examination backend.
type Client struct {
	baseURL string
	httpc   *http.Client
	retries int
	log     zerolog.Logger
}

// New creates a backend client from configuration.
func New(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BackendURL,
		httpc:   &http.Client{Timeout: cfg.BackendTimeout},
		retries: cfg.BackendRetries,
		log:     log.With().Str("component", "backend_client").Logger(),
	}
}

// do performs an authenticated request. A missing token short-circuits with
// ErrTokenRequired before any network I/O. GET requests are retried on
// network errors and 5xx replies with exponential backoff; mutating calls
// are dispatched exactly once (fire-and-await-response).
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	if token == "" {
		return ErrTokenRequired
	}
	return c.request(ctx, method, path, token, body, out)
}

// doPublic performs an unauthenticated request (login, registration).
func (c *Client) doPublic(ctx context.Context, method, path string, body, out interface{}) error {
	return c.request(ctx, method, path, "", body, out)
}

func (c *Client) request(ctx context.Context, method, path, token string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := retryDelay(attempt)
			c.log.Warn().
				Str("path", path).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying backend call")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		retryable, err := c.once(ctx, method, path, token, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// once executes a single HTTP exchange. The bool result reports whether the
// failure is safe to retry.
func (c *Client) once(ctx context.Context, method, path, token string, payload []byte, out interface{}) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return true, fmt.Errorf("dispatch: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return true, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= 500 {
		return true, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if resp.StatusCode >= 400 {
		return false, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return false, nil
}

// retryDelay returns the backoff before the given retry attempt (1-based).
func retryDelay(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// errorMessage extracts the backend's message field from an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}
