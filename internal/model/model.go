package model

import (
	"fmt"
	"sort"
	"strings"
)

// Cell is a board coordinate. Cells order lexicographically, row first, so
// scans and signatures are deterministic.
type Cell struct {
	R int `json:"r"`
	C int `json:"c"`
}

// Less reports whether c precedes other in row-major order.
func (c Cell) Less(other Cell) bool {
	if c.R != other.R {
		return c.R < other.R
	}
	return c.C < other.C
}

func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.R, c.C)
}

// SortCells sorts cells in place in row-major order.
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
}

// Placement records one piece fixed at absolute board cells.
type Placement struct {
	Piece PieceName `json:"piece"`
	Cells []Cell    `json:"cells"`
}

// Solution is an ordered list of placements that exactly covers a problem's
// mask.
type Solution []Placement

// Signature returns the canonical form of a solution: cells sorted within
// each placement, placements sorted by piece and cells. Two solutions with
// the same signature tile the board identically regardless of the order the
// search placed the pieces in.
func (s Solution) Signature() string {
	entries := make([]string, len(s))
	for i, p := range s {
		cells := make([]Cell, len(p.Cells))
		copy(cells, p.Cells)
		SortCells(cells)
		parts := make([]string, len(cells))
		for j, c := range cells {
			parts[j] = c.String()
		}
		entries[i] = string(p.Piece) + ":" + strings.Join(parts, ";")
	}
	sort.Strings(entries)
	return strings.Join(entries, "|")
}

// Cells returns every cell covered by the solution, unsorted.
func (s Solution) Cells() []Cell {
	var out []Cell
	for _, p := range s {
		out = append(out, p.Cells...)
	}
	return out
}

// Problem describes one tiling task: board bounds, the mask of allowed
// cells, and the subset of pieces available to the search. A Problem is
// immutable after construction.
type Problem struct {
	Name   string      `json:"name"`
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Mask   []Cell      `json:"mask"`
	Pieces []PieceName `json:"pieces"`
}

// NewProblem builds a problem from explicit mask cells. The mask is copied
// and sorted row-major; pieces are copied and sorted alphabetically, which
// fixes the deterministic search order.
func NewProblem(name string, rows, cols int, mask []Cell, pieces []PieceName) Problem {
	m := make([]Cell, len(mask))
	copy(m, mask)
	SortCells(m)
	ps := make([]PieceName, len(pieces))
	copy(ps, pieces)
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	return Problem{Name: name, Rows: rows, Cols: cols, Mask: m, Pieces: ps}
}

// RectProblem builds a full rows x cols rectangle with the given pieces.
func RectProblem(rows, cols int, pieces []PieceName) Problem {
	mask := make([]Cell, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			mask = append(mask, Cell{R: r, C: c})
		}
	}
	name := fmt.Sprintf("rect-%dx%d", rows, cols)
	return NewProblem(name, rows, cols, mask, pieces)
}

// TriplicationProblem builds the classic triplication puzzle for a piece:
// the mask is the piece's own outline scaled by three (each base cell
// becomes a 3x3 block, 45 cells total), to be tiled by nine of the
// selected pieces. A nil selection offers every piece except the scaled
// one.
func TriplicationProblem(piece PieceName, selected []PieceName) Problem {
	base := Pentominoes[piece]
	maxR, maxC := 0, 0
	mask := make([]Cell, 0, len(base)*9)
	for _, cell := range base {
		if cell.R+1 > maxR {
			maxR = cell.R + 1
		}
		if cell.C+1 > maxC {
			maxC = cell.C + 1
		}
		for dr := 0; dr < 3; dr++ {
			for dc := 0; dc < 3; dc++ {
				mask = append(mask, Cell{R: cell.R*3 + dr, C: cell.C*3 + dc})
			}
		}
	}
	pieces := selected
	if pieces == nil {
		for _, name := range AllPieceNames() {
			if name != piece {
				pieces = append(pieces, name)
			}
		}
	}
	name := fmt.Sprintf("triplication-%s", piece)
	return NewProblem(name, maxR*3, maxC*3, mask, pieces)
}

// SolveSettings holds search configuration.
type SolveSettings struct {
	// Pruning enables the void-region feasibility check after each
	// tentative placement.
	Pruning bool `json:"pruning"`
	// MaxSteps caps the number of recursive calls; 0 means unlimited.
	// Exceeding the cap aborts the search with a budget error.
	MaxSteps int `json:"max_steps"`
}

// DefaultSolveSettings returns the settings used by the CLI and saved runs.
func DefaultSolveSettings() SolveSettings {
	return SolveSettings{
		Pruning:  true,
		MaxSteps: 0,
	}
}
