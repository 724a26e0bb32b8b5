package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// ExamSettings fetches the exam policy (duration, per-subject quotas).
func (c *Client) ExamSettings(ctx context.Context, token string) (*model.ExamSettings, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/exam-settings", token, nil, &env); err != nil {
		return nil, fmt.Errorf("get exam settings: %w", err)
	}

	var settings model.ExamSettings
	if err := decodePayload(&env, &settings); err != nil {
		return nil, fmt.Errorf("get exam settings: %w", err)
	}
	return &settings, nil
}

// ExamRecords lists the calling student's exam attempts.
func (c *Client) ExamRecords(ctx context.Context, token string) ([]model.ExamRecord, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/exam-results", token, nil, &env); err != nil {
		return nil, fmt.Errorf("list exam records: %w", err)
	}

	var records []model.ExamRecord
	if err := decodePayload(&env, &records); err != nil {
		return nil, fmt.Errorf("list exam records: %w", err)
	}
	return records, nil
}

// ExamQuestions fetches the eligible question pool for the active exam.
// Correct answers are withheld by the backend on this endpoint.
func (c *Client) ExamQuestions(ctx context.Context, token string) ([]model.Question, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/questions/exam", token, nil, &env); err != nil {
		return nil, fmt.Errorf("fetch question pool: %w", err)
	}

	var questions []model.Question
	if err := decodePayload(&env, &questions); err != nil {
		return nil, fmt.Errorf("fetch question pool: %w", err)
	}
	return questions, nil
}

// SubmitAnswers sends the complete answer mapping for an exam attempt in a
// single call. The caller keeps its local copy until this returns nil.
func (c *Client) SubmitAnswers(ctx context.Context, token, examID string, answers map[string]string) error {
	body := map[string]interface{}{"answers": answers}
	if err := c.do(ctx, http.MethodPost, "/api/exam-results/"+examID+"/submit", token, body, nil); err != nil {
		return fmt.Errorf("submit answers: %w", err)
	}
	return nil
}

// CancelExam abandons an in-progress attempt. No answers are retained.
func (c *Client) CancelExam(ctx context.Context, token, examID string) error {
	if err := c.do(ctx, http.MethodPost, "/api/exam-results/"+examID+"/cancel", token, nil, nil); err != nil {
		return fmt.Errorf("cancel exam: %w", err)
	}
	return nil
}

// reportPayload is the graded attempt used for the score report.
type reportPayload struct {
	Record  model.ExamRecord         `json:"record"`
	Answers []model.AnsweredQuestion `json:"answers"`
}

// LatestReport fetches the student's most recent graded attempt together
// with the per-question answer breakdown.
func (c *Client) LatestReport(ctx context.Context, token string) (*model.ExamRecord, []model.AnsweredQuestion, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/exam-results/latest", token, nil, &env); err != nil {
		return nil, nil, fmt.Errorf("fetch report: %w", err)
	}

	var payload reportPayload
	if err := decodePayload(&env, &payload); err != nil {
		return nil, nil, fmt.Errorf("fetch report: %w", err)
	}
	return &payload.Record, payload.Answers, nil
}
