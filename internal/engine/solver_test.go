package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/PentoTrace/internal/model"
)

// rect3x5LPV is the smallest handy solvable case: L as a 4-run with its
// foot below the right end, V filling the right corner, P taking the rest.
func rect3x5LPV() model.Problem {
	return model.RectProblem(3, 5, []model.PieceName{"L", "P", "V"})
}

func checkSolution(t *testing.T, p model.Problem, sol model.Solution) {
	t.Helper()
	covered := make(map[model.Cell]model.PieceName)
	usedPiece := make(map[model.PieceName]bool)
	for _, pl := range sol {
		if usedPiece[pl.Piece] {
			t.Errorf("piece %s placed twice", pl.Piece)
		}
		usedPiece[pl.Piece] = true
		if len(pl.Cells) != model.PieceSize {
			t.Errorf("piece %s covers %d cells", pl.Piece, len(pl.Cells))
		}
		for _, c := range pl.Cells {
			if prev, clash := covered[c]; clash {
				t.Errorf("cell %s covered by both %s and %s", c, prev, pl.Piece)
			}
			covered[c] = pl.Piece
		}
	}
	if len(covered) != len(p.Mask) {
		t.Errorf("solution covers %d cells, mask has %d", len(covered), len(p.Mask))
	}
	for _, c := range p.Mask {
		if _, ok := covered[c]; !ok {
			t.Errorf("mask cell %s left uncovered", c)
		}
	}
}

func TestSolveSmallRect(t *testing.T) {
	s := New(model.DefaultSolveSettings())
	sol, err := s.Solve(rect3x5LPV())
	if err != nil {
		t.Fatalf("3x5 with L, P, V should be solvable: %v", err)
	}
	checkSolution(t, rect3x5LPV(), sol)
}

func TestSolveRect6x10(t *testing.T) {
	p := model.RectProblem(6, 10, model.AllPieceNames())
	s := New(model.DefaultSolveSettings())
	sol, err := s.Solve(p)
	if err != nil {
		t.Fatalf("the 6x10 rectangle is solvable: %v", err)
	}
	if len(sol) != 12 {
		t.Fatalf("expected 12 placements, got %d", len(sol))
	}
	checkSolution(t, p, sol)
}

func TestSolveIsDeterministic(t *testing.T) {
	s := New(model.DefaultSolveSettings())
	a, err := s.Solve(rect3x5LPV())
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Solve(rect3x5LPV())
	if err != nil {
		t.Fatal(err)
	}
	if a.Signature() != b.Signature() {
		t.Error("repeated deterministic solves should agree")
	}
}

func TestSolveSeededIsReproducible(t *testing.T) {
	p := model.RectProblem(6, 10, model.AllPieceNames())
	s := New(model.DefaultSolveSettings())
	a, err := s.SolveSeeded(p, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.SolveSeeded(p, 42)
	if err != nil {
		t.Fatal(err)
	}
	if a.Signature() != b.Signature() {
		t.Error("same seed should reproduce the same solution")
	}
	checkSolution(t, p, a)
}

func TestSolveNoSolution(t *testing.T) {
	// A 1x5 strip admits only the I piece; U cannot cover it.
	p := model.RectProblem(1, 5, []model.PieceName{"U"})
	s := New(model.DefaultSolveSettings())
	if _, err := s.Solve(p); !errors.Is(err, ErrNoSolution) {
		t.Errorf("expected ErrNoSolution, got %v", err)
	}
}

func TestSolveRejectsNonMultipleMask(t *testing.T) {
	p := model.RectProblem(2, 3, model.AllPieceNames())
	s := New(model.DefaultSolveSettings())
	if _, err := s.Solve(p); !errors.Is(err, ErrNoSolution) {
		t.Errorf("6-cell mask can never be covered, got %v", err)
	}
}

func TestSolveBudget(t *testing.T) {
	p := model.RectProblem(6, 10, model.AllPieceNames())
	s := New(model.SolveSettings{Pruning: true, MaxSteps: 1})
	if _, err := s.Solve(p); !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("expected ErrBudgetExceeded, got %v", err)
	}
}

func TestSearchEventsStopsAtBudget(t *testing.T) {
	p := model.RectProblem(6, 10, model.AllPieceNames())
	s := New(model.SolveSettings{Pruning: false})
	events := s.SearchEvents(p, 200)
	if len(events) == 0 || len(events) > 200 {
		t.Fatalf("expected 1..200 events, got %d", len(events))
	}
	if events[0].Kind != StepPlace {
		t.Errorf("the first transition must be a placement, got %s", events[0].Kind)
	}
}

func TestSearchEventsReplay(t *testing.T) {
	p := rect3x5LPV()
	s := New(model.SolveSettings{Pruning: false})
	events := s.SearchEvents(p, 500)

	// Replaying the log against a fresh board must respect the board
	// contract; Place and Remove panic otherwise.
	b := model.NewBoard(p)
	for i, ev := range events {
		switch ev.Kind {
		case StepPlace:
			if !b.CanPlace(ev.Placement.Cells) {
				t.Fatalf("event %d places onto an illegal position", i)
			}
			b.Place(ev.Placement.Piece, ev.Placement.Cells)
		case StepRemove:
			b.Remove(ev.Placement.Piece, ev.Placement.Cells)
		default:
			t.Fatalf("event %d has unknown kind %q", i, ev.Kind)
		}
	}

	// The budget outlives the search on this board, so the log ends on the
	// placement that completes the cover, with nothing logged past it.
	if events[len(events)-1].Kind != StepPlace {
		t.Errorf("a successful log must end on a placement, got %s", events[len(events)-1].Kind)
	}
	if _, empty := b.FirstEmpty(); empty {
		t.Error("replaying the full log should leave the board covered")
	}
}
