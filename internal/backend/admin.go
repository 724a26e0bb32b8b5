package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// ListQuestions fetches the full question bank (admin view, with correct
// answers).
func (c *Client) ListQuestions(ctx context.Context, token string) ([]model.AdminQuestion, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/questions", token, nil, &env); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	var questions []model.AdminQuestion
	if err := decodePayload(&env, &questions); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// CreateQuestion adds a question to the bank.
func (c *Client) CreateQuestion(ctx context.Context, token string, req model.SaveQuestionRequest) (*model.AdminQuestion, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/questions", token, req, &env); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	var q model.AdminQuestion
	if err := decodePayload(&env, &q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return &q, nil
}

// UpdateQuestion replaces an existing question.
func (c *Client) UpdateQuestion(ctx context.Context, token, id string, req model.SaveQuestionRequest) error {
	if err := c.do(ctx, http.MethodPut, "/api/questions/"+id, token, req, nil); err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return nil
}

// DeleteQuestion removes a question from the bank.
func (c *Client) DeleteQuestion(ctx context.Context, token, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/questions/"+id, token, nil, nil); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

// ListStudents fetches the registered candidate list.
func (c *Client) ListStudents(ctx context.Context, token string) ([]model.Student, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/admin/students", token, nil, &env); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	var students []model.Student
	if err := decodePayload(&env, &students); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// RegisterStudent registers a new candidate and returns the record with the
// assigned exam number.
func (c *Client) RegisterStudent(ctx context.Context, token string, req model.RegisterStudentRequest) (*model.Student, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/admin/students", token, req, &env); err != nil {
		return nil, fmt.Errorf("register student: %w", err)
	}

	var student model.Student
	if err := decodePayload(&env, &student); err != nil {
		return nil, fmt.Errorf("register student: %w", err)
	}
	return &student, nil
}

// ListResults fetches all completed attempts for the admin results view.
func (c *Client) ListResults(ctx context.Context, token string) ([]model.ExamResult, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/exam-results/all", token, nil, &env); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	var results []model.ExamResult
	if err := decodePayload(&env, &results); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// UpdateSettings saves the exam policy.
func (c *Client) UpdateSettings(ctx context.Context, token string, req model.UpdateSettingsRequest) error {
	if err := c.do(ctx, http.MethodPut, "/api/auth/exam-settings", token, req, nil); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
