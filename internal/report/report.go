package report

import (
	"fmt"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// SubjectScore is a per-subject grading summary.
type SubjectScore struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SubjectScores folds graded answers into per-subject totals. Marks weight
// both the achieved score and the obtainable total, so subjects with
// heavier questions are not flattened.
func SubjectScores(answers []model.AnsweredQuestion) map[model.Subject]SubjectScore {
	scores := make(map[model.Subject]SubjectScore, len(model.SubjectOrder))
	for _, subject := range model.SubjectOrder {
		scores[subject] = SubjectScore{}
	}

	for _, a := range answers {
		subject := a.Question.Subject
		if !model.ValidSubject(subject) {
			continue
		}
		entry := scores[subject]
		marks := a.Question.Marks
		if marks <= 0 {
			marks = 1
		}
		entry.Total += marks
		if a.Correct {
			entry.Score += marks
		}
		scores[subject] = entry
	}

	for subject, entry := range scores {
		if entry.Total > 0 {
			entry.Percentage = float64(entry.Score) / float64(entry.Total) * 100
		}
		scores[subject] = entry
	}
	return scores
}

// ScoreReport renders a candidate's graded exam report as PDF bytes.
func (e *Exporter) ScoreReport(student model.Student, record model.ExamRecord, answers []model.AnsweredQuestion) ([]byte, error) {
	pdf, err := e.newDocument()
	if err != nil {
		return nil, err
	}

	pdf.SetXY(pageMargin, pageMargin)
	if err := heading(pdf, schoolName, 16); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	if err := heading(pdf, "Entrance Examination Report", 13); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	rule(pdf)

	if err := labeled(pdf, "Candidate", orDash(student.FullName)); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	if err := labeled(pdf, "Exam Number", orDash(student.ExamNumber)); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	if err := labeled(pdf, "Completed", formatDateTime(record.FinishedAt)); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	rule(pdf)

	scores := SubjectScores(answers)
	var totalScore, totalMarks int
	for _, subject := range model.SubjectOrder {
		entry := scores[subject]
		totalScore += entry.Score
		totalMarks += entry.Total
		value := fmt.Sprintf("%d / %d (%.1f%%)", entry.Score, entry.Total, entry.Percentage)
		if err := labeled(pdf, string(subject), value); err != nil {
			return nil, fmt.Errorf("render report: %w", err)
		}
	}

	rule(pdf)
	overall := record.TotalScore
	if overall == 0 && totalMarks > 0 {
		overall = float64(totalScore)
	}
	pct := 0.0
	if totalMarks > 0 {
		pct = float64(totalScore) / float64(totalMarks) * 100
	}
	if err := labeled(pdf, "Total Score", fmt.Sprintf("%.0f / %d (%.1f%%)", overall, totalMarks, pct)); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	return pdf.GetBytesPdf(), nil
}
