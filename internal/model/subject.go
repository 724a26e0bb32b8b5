package model

// Subject identifies one of the fixed examination subjects.
type Subject string

const (
	SubjectMathematics           Subject = "Mathematics"
	SubjectEnglish               Subject = "English"
	SubjectVerbalReasoning       Subject = "Verbal Reasoning"
	SubjectQuantitativeReasoning Subject = "Quantitative Reasoning"
	SubjectGeneralPaper          Subject = "General Paper"
)

// SubjectOrder is the canonical subject sequence for an assembled paper.
// Subject blocks never interleave and always appear in this order.
var SubjectOrder = []Subject{
	SubjectMathematics,
	SubjectEnglish,
	SubjectVerbalReasoning,
	SubjectQuantitativeReasoning,
	SubjectGeneralPaper,
}

// ValidSubject reports whether s is one of the fixed subjects.
func ValidSubject(s Subject) bool {
	for _, known := range SubjectOrder {
		if s == known {
			return true
		}
	}
	return false
}
