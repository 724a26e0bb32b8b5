package exam

import (
	"math/rand"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// Assemble builds the question sequence for one exam attempt.
//
// The pool is partitioned by the fixed subject order; each subject's
// questions are independently shuffled (Fisher–Yates) with the injected
// random source and the first min(quota, available) are taken. Subject
// blocks are concatenated in the fixed order and never interleave, so the
// total count is deterministic for a given pool and quota configuration.
//
// The random source is injected so assembly is reproducible under test.
func Assemble(pool []model.Question, quota func(model.Subject) int, rng *rand.Rand) []model.Question {
	bySubject := make(map[model.Subject][]model.Question, len(model.SubjectOrder))
	for _, q := range pool {
		bySubject[q.Subject] = append(bySubject[q.Subject], q)
	}

	var sequence []model.Question
	for _, subject := range model.SubjectOrder {
		block := shuffled(bySubject[subject], rng)
		n := quota(subject)
		if n > len(block) {
			n = len(block)
		}
		if n < 0 {
			n = 0
		}
		sequence = append(sequence, block[:n]...)
	}
	return sequence
}

// shuffled returns a Fisher–Yates shuffled copy, leaving the input intact.
func shuffled(questions []model.Question, rng *rand.Rand) []model.Question {
	out := make([]model.Question, len(questions))
	copy(out, questions)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
