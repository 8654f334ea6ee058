package model

import "fmt"

// Board is the mutable occupancy state of one search. It is owned by a
// single call stack; placements and removals must pair exactly except along
// a successful path, which is left applied.
type Board struct {
	rows, cols int
	mask       []Cell
	allowed    map[Cell]bool
	occupied   map[Cell]PieceName
	used       map[PieceName]bool
}

// NewBoard creates an empty board for the problem's mask.
func NewBoard(p Problem) *Board {
	allowed := make(map[Cell]bool, len(p.Mask))
	for _, c := range p.Mask {
		allowed[c] = true
	}
	return &Board{
		rows:     p.Rows,
		cols:     p.Cols,
		mask:     p.Mask,
		allowed:  allowed,
		occupied: make(map[Cell]PieceName, len(p.Mask)),
		used:     make(map[PieceName]bool, len(p.Pieces)),
	}
}

// Rows returns the board's row bound.
func (b *Board) Rows() int { return b.rows }

// Cols returns the board's column bound.
func (b *Board) Cols() int { return b.cols }

// Mask returns the allowed cells in row-major order. Callers must not
// mutate the returned slice.
func (b *Board) Mask() []Cell { return b.mask }

// Allowed reports whether the cell belongs to the mask.
func (b *Board) Allowed(c Cell) bool { return b.allowed[c] }

// Occupied reports the piece covering the cell, if any.
func (b *Board) Occupied(c Cell) (PieceName, bool) {
	name, ok := b.occupied[c]
	return name, ok
}

// Used reports whether the piece has been placed.
func (b *Board) Used(name PieceName) bool { return b.used[name] }

// FirstEmpty returns the first unoccupied mask cell in row-major order.
// ok is false iff the mask is fully covered, which is the search's success
// condition.
func (b *Board) FirstEmpty() (Cell, bool) {
	for _, c := range b.mask {
		if _, filled := b.occupied[c]; !filled {
			return c, true
		}
	}
	return Cell{}, false
}

// CanPlace reports whether every cell is inside the mask and unoccupied.
// It has no side effects.
func (b *Board) CanPlace(cells []Cell) bool {
	for _, c := range cells {
		if !b.allowed[c] {
			return false
		}
		if _, filled := b.occupied[c]; filled {
			return false
		}
	}
	return true
}

// Place marks the cells as occupied by the piece and the piece as used.
// Placing onto occupied or out-of-mask cells, or reusing a piece, is a
// contract violation and panics.
func (b *Board) Place(name PieceName, cells []Cell) {
	if b.used[name] {
		panic(fmt.Sprintf("board: piece %s placed twice", name))
	}
	for _, c := range cells {
		if !b.allowed[c] {
			panic(fmt.Sprintf("board: place %s outside mask at %s", name, c))
		}
		if owner, filled := b.occupied[c]; filled {
			panic(fmt.Sprintf("board: place %s over %s at %s", name, owner, c))
		}
		b.occupied[c] = name
	}
	b.used[name] = true
}

// Remove is the exact inverse of Place and must be called with the same
// arguments as a prior Place with no intervening mutation of those cells.
func (b *Board) Remove(name PieceName, cells []Cell) {
	if !b.used[name] {
		panic(fmt.Sprintf("board: remove of unused piece %s", name))
	}
	for _, c := range cells {
		if owner, filled := b.occupied[c]; !filled || owner != name {
			panic(fmt.Sprintf("board: remove %s from cell %s it does not own", name, c))
		}
		delete(b.occupied, c)
	}
	delete(b.used, name)
}

// Snapshot returns a copy of the current occupancy map.
func (b *Board) Snapshot() map[Cell]PieceName {
	out := make(map[Cell]PieceName, len(b.occupied))
	for c, name := range b.occupied {
		out[c] = name
	}
	return out
}

// Signature returns a canonical string of the occupancy, suitable for
// matching equal board states across independent searches.
func (b *Board) Signature() string {
	return BoardSignature(b.occupied)
}

// BoardSignature canonicalizes an occupancy map: sorted "r,c:piece" entries
// joined by "|".
func BoardSignature(occupied map[Cell]PieceName) string {
	cells := make([]Cell, 0, len(occupied))
	for c := range occupied {
		cells = append(cells, c)
	}
	SortCells(cells)
	buf := make([]byte, 0, len(cells)*8)
	for i, c := range cells {
		if i > 0 {
			buf = append(buf, '|')
		}
		buf = append(buf, c.String()...)
		buf = append(buf, ':')
		buf = append(buf, occupied[c]...)
	}
	return string(buf)
}
