package exam

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// Loader is the slice of the REST backend needed to set a session up.
type Loader interface {
	ExamSettings(ctx context.Context, token string) (*model.ExamSettings, error)
	ExamRecords(ctx context.Context, token string) ([]model.ExamRecord, error)
	ExamQuestions(ctx context.Context, token string) ([]model.Question, error)
}

// Defaults are configuration fallbacks applied when the backend settings
// omit a value.
type Defaults struct {
	DurationMinutes int
	SubjectQuota    int
}

// Controller assembles exam sessions from backend data.
type Controller struct {
	loader   Loader
	backend  Backend
	defaults Defaults
	rng      *rand.Rand
	log      zerolog.Logger
}

// NewController creates a session controller. The random source is injected
// so assemblies are reproducible under test; pass a time-seeded source in
// production.
func NewController(loader Loader, backend Backend, defaults Defaults, rng *rand.Rand, log zerolog.Logger) *Controller {
	return &Controller{
		loader:   loader,
		backend:  backend,
		defaults: defaults,
		rng:      rng,
		log:      log.With().Str("component", "exam_controller").Logger(),
	}
}

// Begin creates a session for the student's pending (incomplete) exam
// record. Settings and records are fetched, the question pool comes from
// the record itself when the backend embedded it and from the pool endpoint
// otherwise, and the sequence is assembled per subject. Fails with
// ErrNoActiveExam when no incomplete record exists or no questions can be
// fetched.
func (c *Controller) Begin(ctx context.Context, token string) (*Session, error) {
	settings, err := c.loader.ExamSettings(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load exam settings: %w", err)
	}

	records, err := c.loader.ExamRecords(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load exam records: %w", err)
	}

	active := findActive(records)
	if active == nil {
		return nil, ErrNoActiveExam
	}

	pool := active.Questions
	if len(pool) == 0 {
		pool, err = c.loader.ExamQuestions(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch question pool: %v", ErrNoActiveExam, err)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoActiveExam
	}

	quota := func(subject model.Subject) int {
		return settings.QuotaFor(subject, c.defaults.SubjectQuota)
	}
	sequence := Assemble(pool, quota, c.rng)
	if len(sequence) == 0 {
		return nil, ErrNoActiveExam
	}

	minutes := settings.DurationMinutes
	if minutes <= 0 {
		minutes = c.defaults.DurationMinutes
	}

	sess, err := NewSession(token, active.ID, sequence, time.Duration(minutes)*time.Minute, c.backend, c.log)
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("exam_id", active.ID).
		Int("questions", len(sequence)).
		Int("duration_minutes", minutes).
		Msg("Exam session assembled")
	return sess, nil
}

// findActive returns the first incomplete exam record, or nil.
func findActive(records []model.ExamRecord) *model.ExamRecord {
	for i := range records {
		if !records[i].Completed {
			return &records[i]
		}
	}
	return nil
}
