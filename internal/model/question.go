package model

// Question represents a single multiple-choice exam question. The correct
// answer is held and checked by the backend only; it is never present on
// questions served to the exam-taking client.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Subject Subject  `json:"subject"`
	Marks   int      `json:"marks"`
}

// AdminQuestion is the full question record as seen by the question bank,
// including the correct answer.
type AdminQuestion struct {
	Question
	CorrectAnswer string `json:"correctAnswer"`
}

// SaveQuestionRequest is the payload for creating or updating a question.
// The correct answer must match one of the four options verbatim.
type SaveQuestionRequest struct {
	Text          string   `json:"question" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,len=4,dive,required,max=1000"`
	Subject       string   `json:"subject" binding:"required"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required,max=1000"`
	Marks         int      `json:"marks" binding:"required,min=1"`
}
