package exam

import "errors"

var (
	// ErrNoActiveExam means no incomplete exam record exists for the
	// student, or the question pool could not be assembled. No session is
	// created; the caller should redirect to the dashboard.
	ErrNoActiveExam = errors.New("no active exam")

	// ErrFinished is returned for operations on a session that has
	// already reached a terminal state (submitted or cancelled).
	ErrFinished = errors.New("exam session already finished")

	// ErrSubmitInFlight means a submission is already outstanding;
	// the trigger is ignored until it resolves.
	ErrSubmitInFlight = errors.New("submission already in flight")

	// ErrUnknownQuestion means the question identifier is not part of
	// this session's assembled sequence.
	ErrUnknownQuestion = errors.New("question not in session")

	// ErrOutOfRange means a jump target is outside the question sequence.
	ErrOutOfRange = errors.New("position out of range")

	// ErrNotPrompted is returned when an exit decision arrives while no
	// exit prompt is pending.
	ErrNotPrompted = errors.New("no exit prompt pending")
)
