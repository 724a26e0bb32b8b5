package exam

import "github.com/goodlyheritage/entrance-portal/internal/model"

// QuestionRef is one entry in the jump-navigation overview.
type QuestionRef struct {
	ID       string        `json:"id"`
	Position int           `json:"position"`
	Subject  model.Subject `json:"subject"`
	Status   Status        `json:"status"`
}

// View is an immutable snapshot of the session for the UI. The current
// subject label is derived from the question at the current position.
type View struct {
	ExamID           string         `json:"exam_id"`
	State            State          `json:"state"`
	Position         int            `json:"position"`
	Total            int            `json:"total"`
	RemainingSeconds int            `json:"remaining_seconds"`
	Subject          model.Subject  `json:"current_subject"`
	Question         model.Question `json:"question"`
	SelectedAnswer   string         `json:"selected_answer,omitempty"`
	AnsweredCount    int            `json:"answered_count"`
	Overview         []QuestionRef  `json:"overview"`
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.questions[s.pos]
	overview := make([]QuestionRef, len(s.questions))
	for i, q := range s.questions {
		overview[i] = QuestionRef{
			ID:       q.ID,
			Position: i,
			Subject:  q.Subject,
			Status:   s.statuses[q.ID],
		}
	}

	return View{
		ExamID:           s.examID,
		State:            s.state,
		Position:         s.pos,
		Total:            len(s.questions),
		RemainingSeconds: s.remaining,
		Subject:          current.Subject,
		Question:         current,
		SelectedAnswer:   s.answers[current.ID],
		AnsweredCount:    len(s.answers),
		Overview:         overview,
	}
}

// Answers returns a copy of the answer mapping.
func (s *Session) Answers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.answers))
	for id, v := range s.answers {
		out[id] = v
	}
	return out
}

// StatusOf returns the derived status for a question in the sequence.
func (s *Session) StatusOf(questionID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[questionID]
}

// CurrentState returns the exit-guard state.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the countdown value in seconds.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}
