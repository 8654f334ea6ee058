package engine

import (
	"fmt"

	"github.com/piwi3910/PentoTrace/internal/model"
)

// InsufficientSolutionsError reports that the attempt budget ran out before
// the requested number of distinct solutions was collected.
type InsufficientSolutionsError struct {
	Found int
	Want  int
}

func (e *InsufficientSolutionsError) Error() string {
	return fmt.Sprintf("engine: found %d of %d distinct solutions before the attempt budget ran out", e.Found, e.Want)
}

// FindDistinctSolutions collects count solutions with pairwise distinct
// canonical signatures by running seeded randomized searches, one attempt
// per seed, seeds incrementing from 1. Results keep first-seen order. When
// maxAttempts runs out first, the partial list is returned along with an
// InsufficientSolutionsError carrying the count found.
func (s *Solver) FindDistinctSolutions(p model.Problem, count, maxAttempts int) ([]model.Solution, error) {
	var out []model.Solution
	seen := make(map[string]bool, count)
	for attempt := 0; attempt < maxAttempts && len(out) < count; attempt++ {
		sol, err := s.SolveSeeded(p, int64(attempt+1))
		if err != nil {
			continue
		}
		sig := sol.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, sol)
	}
	if len(out) < count {
		return out, &InsufficientSolutionsError{Found: len(out), Want: count}
	}
	return out, nil
}
