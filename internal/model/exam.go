package model

import "time"

// ExamSettings is the deployment-level exam policy stored on the backend.
// Duration and per-subject quotas are configuration, not hardcoded.
type ExamSettings struct {
	DurationMinutes     int            `json:"examDurationMinutes"`
	QuestionsPerSubject map[string]int `json:"questionsPerSubject"`
	TotalQuestions      int            `json:"totalQuestions"`
}

// QuotaFor returns the configured question quota for a subject, or the
// provided fallback when the subject has no explicit entry.
func (s ExamSettings) QuotaFor(subject Subject, fallback int) int {
	if n, ok := s.QuestionsPerSubject[string(subject)]; ok && n > 0 {
		return n
	}
	return fallback
}

// ExamRecord is one student exam attempt as reported by the backend.
// An attempt with Completed == false is the active exam the portal may
// resume; a completed one carries the final score.
type ExamRecord struct {
	ID         string     `json:"id"`
	Completed  bool       `json:"completed"`
	TotalScore float64    `json:"totalScore"`
	Questions  []Question `json:"questions,omitempty"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// ExamResult is a completed attempt joined with student identity, as listed
// in the admin results view.
type ExamResult struct {
	ID         string             `json:"id"`
	Student    Student            `json:"student"`
	TotalScore float64            `json:"totalScore"`
	Subjects   map[string]float64 `json:"subjectScores,omitempty"`
	Completed  bool               `json:"completed"`
	FinishedAt *time.Time         `json:"finishedAt,omitempty"`
}

// AnsweredQuestion pairs a question with the answer a student selected,
// as graded by the backend. It feeds the per-subject score report.
type AnsweredQuestion struct {
	Question Question `json:"question"`
	Selected string   `json:"selectedAnswer"`
	Correct  bool     `json:"isCorrect"`
}

// UpdateSettingsRequest is the admin payload for changing exam policy.
type UpdateSettingsRequest struct {
	DurationMinutes     int            `json:"examDurationMinutes" binding:"required,min=1,max=600"`
	QuestionsPerSubject map[string]int `json:"questionsPerSubject" binding:"required"`
}
