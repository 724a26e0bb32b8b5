package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

const resultsSheet = "Exam Results"

// ResultsWorkbook exports the admin results listing as XLSX bytes, one row
// per completed attempt with the per-subject breakdown when available.
func (e *Exporter) ResultsWorkbook(results []model.ExamResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", resultsSheet)

	headers := []string{"Exam Number", "Full Name", "Email", "Total Score", "Completed At"}
	for _, subject := range model.SubjectOrder {
		headers = append(headers, string(subject))
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("results workbook: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("results workbook: %w", err)
		}
		if err := f.SetCellValue(resultsSheet, cell, header); err != nil {
			return nil, fmt.Errorf("results workbook: %w", err)
		}
		if err := f.SetCellStyle(resultsSheet, cell, cell, boldStyle); err != nil {
			return nil, fmt.Errorf("results workbook: %w", err)
		}
	}

	for i, result := range results {
		row := i + 2
		values := []interface{}{
			result.Student.ExamNumber,
			result.Student.FullName,
			result.Student.Email,
			result.TotalScore,
			formatStamp(result.FinishedAt),
		}
		for _, subject := range model.SubjectOrder {
			if score, ok := result.Subjects[string(subject)]; ok {
				values = append(values, score)
			} else {
				values = append(values, "")
			}
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("results workbook: %w", err)
			}
			if err := f.SetCellValue(resultsSheet, cell, value); err != nil {
				return nil, fmt.Errorf("results workbook: %w", err)
			}
		}
	}

	if err := f.SetColWidth(resultsSheet, "A", "E", 22); err != nil {
		return nil, fmt.Errorf("results workbook: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("results workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
