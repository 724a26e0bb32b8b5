package exam

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// makePool builds n questions per listed subject with predictable IDs.
func makePool(perSubject int, subjects ...model.Subject) []model.Question {
	var pool []model.Question
	for _, subject := range subjects {
		for i := 0; i < perSubject; i++ {
			pool = append(pool, model.Question{
				ID:      fmt.Sprintf("%s-%d", subject, i),
				Text:    fmt.Sprintf("Question %d", i),
				Options: []string{"A", "B", "C", "D"},
				Subject: subject,
				Marks:   1,
			})
		}
	}
	return pool
}

func fixedQuota(n int) func(model.Subject) int {
	return func(model.Subject) int { return n }
}

func TestAssembleQuotaInvariant(t *testing.T) {
	tests := []struct {
		name       string
		perSubject int
		quota      int
		subjects   []model.Subject
		want       int
	}{
		{"quota below pool", 30, 20, model.SubjectOrder, 100},
		{"quota equals pool", 20, 20, model.SubjectOrder, 100},
		{"quota above pool takes all", 5, 20, model.SubjectOrder, 25},
		{"missing subjects contribute nothing", 20, 20, []model.Subject{model.SubjectMathematics, model.SubjectEnglish}, 40},
		{"empty pool", 0, 20, nil, 0},
		{"zero quota yields nothing", 10, 0, model.SubjectOrder, 0},
		{"negative quota yields nothing", 10, -1, model.SubjectOrder, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := makePool(tt.perSubject, tt.subjects...)
			sequence := Assemble(pool, fixedQuota(tt.quota), rand.New(rand.NewSource(1)))
			if len(sequence) != tt.want {
				t.Errorf("got %d questions, want %d", len(sequence), tt.want)
			}

			counts := make(map[model.Subject]int)
			for _, q := range sequence {
				counts[q.Subject]++
			}
			for subject, n := range counts {
				if n > tt.quota {
					t.Errorf("subject %s got %d questions, quota is %d", subject, n, tt.quota)
				}
			}
		})
	}
}

func TestAssembleSubjectBlocksOrdered(t *testing.T) {
	pool := makePool(10, model.SubjectOrder...)
	sequence := Assemble(pool, fixedQuota(5), rand.New(rand.NewSource(7)))

	rank := make(map[model.Subject]int, len(model.SubjectOrder))
	for i, subject := range model.SubjectOrder {
		rank[subject] = i
	}

	last := -1
	for i, q := range sequence {
		r := rank[q.Subject]
		if r < last {
			t.Fatalf("question %d (%s) appears after a later subject block", i, q.Subject)
		}
		last = r
	}
}

func TestAssembleSeededShuffleDiffers(t *testing.T) {
	pool := makePool(40, model.SubjectMathematics)

	a := Assemble(pool, fixedQuota(20), rand.New(rand.NewSource(1)))
	b := Assemble(pool, fixedQuota(20), rand.New(rand.NewSource(2)))

	if len(a) != 20 || len(b) != 20 {
		t.Fatalf("got %d and %d questions, want 20 each", len(a), len(b))
	}

	same := true
	for i := range a {
		if a[i].ID != b[i].ID {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical sequences")
	}

	// Same seed must reproduce exactly.
	c := Assemble(pool, fixedQuota(20), rand.New(rand.NewSource(1)))
	for i := range a {
		if a[i].ID != c[i].ID {
			t.Fatalf("same seed diverged at position %d", i)
		}
	}
}

func TestAssembleLeavesPoolIntact(t *testing.T) {
	pool := makePool(10, model.SubjectMathematics)
	before := make([]string, len(pool))
	for i, q := range pool {
		before[i] = q.ID
	}

	Assemble(pool, fixedQuota(5), rand.New(rand.NewSource(3)))

	for i, q := range pool {
		if q.ID != before[i] {
			t.Fatalf("pool mutated at index %d", i)
		}
	}
}
