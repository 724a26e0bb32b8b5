package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

func answered(subject model.Subject, marks int, correct bool) model.AnsweredQuestion {
	return model.AnsweredQuestion{
		Question: model.Question{
			ID:      "q",
			Subject: subject,
			Marks:   marks,
		},
		Selected: "A",
		Correct:  correct,
	}
}

func TestSubjectScores(t *testing.T) {
	answers := []model.AnsweredQuestion{
		answered(model.SubjectMathematics, 2, true),
		answered(model.SubjectMathematics, 2, false),
		answered(model.SubjectMathematics, 1, true),
		answered(model.SubjectEnglish, 1, true),
		answered(model.SubjectEnglish, 1, true),
	}

	scores := SubjectScores(answers)

	math := scores[model.SubjectMathematics]
	if math.Score != 3 || math.Total != 5 {
		t.Errorf("Mathematics = %d/%d, want 3/5", math.Score, math.Total)
	}
	if math.Percentage != 60 {
		t.Errorf("Mathematics percentage = %.1f, want 60.0", math.Percentage)
	}

	english := scores[model.SubjectEnglish]
	if english.Score != 2 || english.Total != 2 || english.Percentage != 100 {
		t.Errorf("English = %+v, want 2/2 at 100%%", english)
	}

	// Untouched subjects appear with zero totals for a complete report.
	general := scores[model.SubjectGeneralPaper]
	if general.Score != 0 || general.Total != 0 || general.Percentage != 0 {
		t.Errorf("General Paper = %+v, want zeroes", general)
	}
}

func TestSubjectScoresDefaultsMarksToOne(t *testing.T) {
	scores := SubjectScores([]model.AnsweredQuestion{
		answered(model.SubjectEnglish, 0, true),
		answered(model.SubjectEnglish, 0, false),
	})

	english := scores[model.SubjectEnglish]
	if english.Score != 1 || english.Total != 2 {
		t.Errorf("English = %d/%d, want 1/2", english.Score, english.Total)
	}
}

func TestSubjectScoresSkipsUnknownSubjects(t *testing.T) {
	scores := SubjectScores([]model.AnsweredQuestion{
		answered("Astrology", 5, true),
	})
	for subject, entry := range scores {
		if entry.Total != 0 {
			t.Errorf("subject %s picked up unknown-subject marks: %+v", subject, entry)
		}
	}
	if _, ok := scores["Astrology"]; ok {
		t.Error("unknown subject leaked into the score map")
	}
}

func TestResultsWorkbook(t *testing.T) {
	finished := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	exporter := NewExporter(t.TempDir(), zerolog.Nop())

	results := []model.ExamResult{
		{
			ID:         "r1",
			Student:    model.Student{ExamNumber: "GH-2026-001", FullName: "Ada Obi", Email: "ada@example.com"},
			TotalScore: 72,
			Subjects:   map[string]float64{string(model.SubjectMathematics): 18},
			Completed:  true,
			FinishedAt: &finished,
		},
		{
			ID:      "r2",
			Student: model.Student{ExamNumber: "GH-2026-002", FullName: "Bola Ade", Email: "bola@example.com"},
		},
	}

	data, err := exporter.ResultsWorkbook(results)
	if err != nil {
		t.Fatalf("ResultsWorkbook: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}
	// XLSX files are ZIP containers.
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("workbook does not look like an XLSX file: % x", data[:4])
	}
}

func TestResultsWorkbookEmpty(t *testing.T) {
	exporter := NewExporter(t.TempDir(), zerolog.Nop())
	data, err := exporter.ResultsWorkbook(nil)
	if err != nil {
		t.Fatalf("ResultsWorkbook: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook bytes for headers-only export")
	}
}
