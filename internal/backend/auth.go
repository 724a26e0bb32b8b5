package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// AuthUser is the authenticated profile returned by the backend on login
// and on the /auth/me endpoint.
type AuthUser struct {
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	Role         model.Role `json:"role"`
	ExamNumber   string     `json:"examNumber,omitempty"`
	ExamGroup    int        `json:"examGroup,omitempty"`
	ExamDateTime *time.Time `json:"examDateTime,omitempty"`
}

type loginPayload struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// Login exchanges credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (string, *AuthUser, error) {
	var env envelope
	if err := c.doPublic(ctx, http.MethodPost, "/api/auth/login", req, &env); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	var payload loginPayload
	if err := decodePayload(&env, &payload); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if payload.Token == "" {
		return "", nil, fmt.Errorf("login: %w: missing token", ErrMalformedResponse)
	}
	return payload.Token, &payload.User, nil
}

// StudentProfile fetches the full candidate record behind a student token,
// including the biographical fields the slip and report need.
func (c *Client) StudentProfile(ctx context.Context, token string) (*model.Student, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/students/me", token, nil, &env); err != nil {
		return nil, fmt.Errorf("get student profile: %w", err)
	}

	var student model.Student
	if err := decodePayload(&env, &student); err != nil {
		return nil, fmt.Errorf("get student profile: %w", err)
	}
	return &student, nil
}

// Me fetches the profile behind a token.
func (c *Client) Me(ctx context.Context, token string) (*AuthUser, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &env); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var user AuthUser
	if err := decodePayload(&env, &user); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &user, nil
}
