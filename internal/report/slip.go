package report

import (
	"fmt"
	"time"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// slipInstructions is printed verbatim at the bottom of every exam slip.
var slipInstructions = []string{
	"1. Please arrive at the examination venue at least 30 minutes before the scheduled time.",
	"2. Bring this exam slip with you (printed or digital copy).",
	"3. No electronic devices (phones, calculators, smartwatches) are allowed in the exam hall.",
	"4. Wear your school uniform or formal attire.",
	"5. Parents/guardians can drop off candidates but will not be allowed into the examination halls.",
	"6. Ensure you have had adequate rest and breakfast before the exam.",
	"7. For any inquiries, please contact the Admission Office.",
}

// ExamSlip renders the registration slip for one candidate as PDF bytes.
func (e *Exporter) ExamSlip(student model.Student) ([]byte, error) {
	pdf, err := e.newDocument()
	if err != nil {
		return nil, err
	}

	pdf.SetXY(pageMargin, pageMargin)
	if err := heading(pdf, schoolName, 16); err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	if err := heading(pdf, "Entrance Examination Slip", 13); err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	rule(pdf)

	rows := []struct{ label, value string }{
		{"Exam Number", orDash(student.ExamNumber)},
		{"Full Name", orDash(student.FullName)},
		{"Email", orDash(student.Email)},
		{"Phone Number", orDash(student.PhoneNumber)},
		{"Sex", orDash(student.Sex)},
		{"State of Origin", orDash(student.StateOfOrigin)},
		{"Nationality", orDash(student.Nationality)},
		{"Date of Birth", formatDate(student.DateOfBirth)},
		{"Exam Group", formatGroup(student.ExamGroup)},
		{"Exam Date & Time", formatDateTime(student.ExamDateTime)},
		{"Venue", examVenue},
	}
	for _, row := range rows {
		if err := labeled(pdf, row.label, row.value); err != nil {
			return nil, fmt.Errorf("render slip: %w", err)
		}
	}

	rule(pdf)
	if err := pdf.SetFont(fontBold, "", 12); err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	pdf.SetX(pageMargin)
	if err := pdf.Cell(nil, "Instructions"); err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	pdf.SetXY(pageMargin, pdf.GetY()+lineHeight)

	if err := pdf.SetFont(fontRegular, "", 10); err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	for _, line := range slipInstructions {
		pdf.SetX(pageMargin)
		if err := pdf.Cell(nil, line); err != nil {
			return nil, fmt.Errorf("render slip: %w", err)
		}
		pdf.SetXY(pageMargin, pdf.GetY()+lineHeight*0.9)
	}

	return pdf.GetBytesPdf(), nil
}

func orDash(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

func formatGroup(group int) string {
	if group <= 0 {
		return "Not assigned yet"
	}
	return fmt.Sprintf("Group %d", group)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "Not provided"
	}
	return t.Format("January 2, 2006")
}

func formatDateTime(t *time.Time) string {
	if t == nil {
		return "Not scheduled yet"
	}
	return t.Format("Monday, January 2, 2006 03:04 PM")
}
