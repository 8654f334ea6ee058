package engine

import (
	"errors"
	"math/rand"

	"github.com/piwi3910/PentoTrace/internal/model"
)

// ErrNoSolution is returned when the search space is exhausted without
// covering the mask.
var ErrNoSolution = errors.New("engine: no solution exists for the problem")

// ErrBudgetExceeded is returned when the step budget runs out before the
// search either succeeds or exhausts.
var ErrBudgetExceeded = errors.New("engine: step budget exceeded")

// Solver runs pentomino exact-cover searches over a problem's mask.
// A Solver is stateless between calls; each call builds its own board.
type Solver struct {
	Settings model.SolveSettings
}

// New creates a solver with the given settings.
func New(settings model.SolveSettings) *Solver {
	return &Solver{Settings: settings}
}

// Solve finds the first solution in deterministic order: pieces
// alphabetically, orientations in their fixed enumeration order, anchor
// offsets in orientation cell order. Returns ErrNoSolution if the space is
// exhausted and ErrBudgetExceeded if Settings.MaxSteps runs out first.
func (s *Solver) Solve(p model.Problem) (model.Solution, error) {
	return s.solve(p, nil)
}

// SolveSeeded finds a solution with the candidate order shuffled at every
// level by a generator seeded from seed. The same seed always yields the
// same solution.
func (s *Solver) SolveSeeded(p model.Problem, seed int64) (model.Solution, error) {
	return s.solve(p, rand.New(rand.NewSource(seed)))
}

func (s *Solver) solve(p model.Problem, rng *rand.Rand) (model.Solution, error) {
	run := &search{
		board:    model.NewBoard(p),
		pieces:   p.Pieces,
		pruning:  s.Settings.Pruning,
		maxSteps: s.Settings.MaxSteps,
		rng:      rng,
	}
	sol, solved, aborted := run.solve()
	if aborted {
		return nil, ErrBudgetExceeded
	}
	if !solved {
		return nil, ErrNoSolution
	}
	return sol, nil
}

// search is the state of one recursive descent.
type search struct {
	board    *model.Board
	pieces   []model.PieceName
	pruning  bool
	maxSteps int
	steps    int
	rng      *rand.Rand
}

// solve recurses from the current board state. Every Place on a failed
// branch is paired with a Remove before the call returns; the successful
// path is left applied on the board.
func (r *search) solve() (model.Solution, bool, bool) {
	r.steps++
	if r.maxSteps > 0 && r.steps > r.maxSteps {
		return nil, false, true
	}
	anchor, ok := r.board.FirstEmpty()
	if !ok {
		return model.Solution{}, true, false
	}
	for _, name := range r.candidatePieces() {
		for _, orient := range r.candidateOrientations(name) {
			for _, target := range r.candidateAnchorCells(orient) {
				cells := shiftToAnchor(orient, target, anchor)
				if !r.board.CanPlace(cells) {
					continue
				}
				r.board.Place(name, cells)
				if r.pruning && !FeasibleRegions(r.board) {
					r.board.Remove(name, cells)
					continue
				}
				rest, solved, aborted := r.solve()
				if aborted {
					r.board.Remove(name, cells)
					return nil, false, true
				}
				if solved {
					sol := make(model.Solution, 0, len(rest)+1)
					sol = append(sol, model.Placement{Piece: name, Cells: cells})
					sol = append(sol, rest...)
					return sol, true, false
				}
				r.board.Remove(name, cells)
			}
		}
	}
	return nil, false, false
}

// candidatePieces returns the unused pieces, shuffled when randomized.
func (r *search) candidatePieces() []model.PieceName {
	var out []model.PieceName
	for _, name := range r.pieces {
		if !r.board.Used(name) {
			out = append(out, name)
		}
	}
	if r.rng != nil {
		r.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

func (r *search) candidateOrientations(name model.PieceName) []model.Shape {
	fixed := model.Orientations(name)
	if r.rng == nil {
		return fixed
	}
	out := make([]model.Shape, len(fixed))
	copy(out, fixed)
	r.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// candidateAnchorCells returns the orientation cells that may land on the
// anchor, shuffled when randomized.
func (r *search) candidateAnchorCells(orient model.Shape) []model.Cell {
	if r.rng == nil {
		return orient
	}
	out := make([]model.Cell, len(orient))
	copy(out, orient)
	r.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// shiftToAnchor translates an orientation so that its target cell lands on
// the anchor cell.
func shiftToAnchor(orient model.Shape, target, anchor model.Cell) []model.Cell {
	dr := anchor.R - target.R
	dc := anchor.C - target.C
	cells := make([]model.Cell, len(orient))
	for i, c := range orient {
		cells[i] = model.Cell{R: c.R + dr, C: c.C + dc}
	}
	return cells
}

// StepKind labels one transition in an exhaustive search log.
type StepKind string

const (
	StepPlace  StepKind = "place"
	StepRemove StepKind = "remove"
)

// Step is one recorded board transition.
type Step struct {
	Kind      StepKind        `json:"kind"`
	Placement model.Placement `json:"placement"`
}

// SearchEvents runs a backtracking search and records every place and
// remove as an event, stopping at the first full cover or once maxEvents
// have been recorded, whichever comes first. A successful log ends on the
// final placement; no removals are recorded past it.
func (s *Solver) SearchEvents(p model.Problem, maxEvents int) []Step {
	run := &eventSearch{
		board:     model.NewBoard(p),
		pieces:    p.Pieces,
		pruning:   s.Settings.Pruning,
		maxEvents: maxEvents,
	}
	run.search()
	return run.events
}

type eventSearch struct {
	board     *model.Board
	pieces    []model.PieceName
	pruning   bool
	maxEvents int
	events    []Step
}

func (r *eventSearch) full() bool {
	return len(r.events) >= r.maxEvents
}

// search explores the space depth first, logging transitions. Returns true
// when the board is covered or the event budget is spent, which forces
// every enclosing frame to return without logging further removals.
func (r *eventSearch) search() bool {
	if r.full() {
		return true
	}
	anchor, ok := r.board.FirstEmpty()
	if !ok {
		return true
	}
	for _, name := range r.pieces {
		if r.board.Used(name) {
			continue
		}
		for _, orient := range model.Orientations(name) {
			for _, target := range orient {
				cells := shiftToAnchor(orient, target, anchor)
				if !r.board.CanPlace(cells) {
					continue
				}
				r.board.Place(name, cells)
				if r.pruning && !FeasibleRegions(r.board) {
					r.board.Remove(name, cells)
					continue
				}
				if r.full() {
					r.board.Remove(name, cells)
					return true
				}
				r.events = append(r.events, Step{Kind: StepPlace, Placement: model.Placement{Piece: name, Cells: cells}})
				stop := r.search()
				r.board.Remove(name, cells)
				if stop || r.full() {
					return true
				}
				r.events = append(r.events, Step{Kind: StepRemove, Placement: model.Placement{Piece: name, Cells: cells}})
			}
		}
	}
	return false
}
