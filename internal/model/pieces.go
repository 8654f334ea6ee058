package model

import "sort"

// PieceName identifies one of the twelve pentominoes by its conventional letter.
type PieceName string

// PieceSize is the number of unit cells in every pentomino.
const PieceSize = 5

// Pentominoes maps each piece letter to its canonical cell set, normalized so
// the bounding box touches row 0 and column 0.
var Pentominoes = map[PieceName]Shape{
	"F": {{0, 1}, {1, 0}, {1, 1}, {1, 2}, {2, 0}},
	"I": {{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}},
	"L": {{0, 0}, {1, 0}, {2, 0}, {3, 0}, {3, 1}},
	"P": {{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}},
	"N": {{0, 0}, {1, 0}, {1, 1}, {2, 1}, {3, 1}},
	"T": {{0, 0}, {0, 1}, {0, 2}, {1, 1}, {2, 1}},
	"U": {{0, 0}, {0, 2}, {1, 0}, {1, 1}, {1, 2}},
	"V": {{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}},
	"W": {{0, 0}, {1, 0}, {1, 1}, {2, 1}, {2, 2}},
	"X": {{0, 1}, {1, 0}, {1, 1}, {1, 2}, {2, 1}},
	"Y": {{0, 1}, {1, 1}, {2, 0}, {2, 1}, {3, 1}},
	"Z": {{0, 0}, {0, 1}, {1, 1}, {2, 1}, {2, 2}},
}

// Shape is a set of unit cells describing a piece outline or one of its
// orientations. Normalized shapes are sorted in row-major order.
type Shape []Cell

// AllPieceNames returns the twelve piece letters in alphabetical order.
func AllPieceNames() []PieceName {
	names := make([]PieceName, 0, len(Pentominoes))
	for name := range Pentominoes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Normalize translates the shape so its minimum row and column are both zero
// and returns the cells sorted in row-major order. Normalizing a normalized
// shape returns an equal shape.
func (s Shape) Normalize() Shape {
	if len(s) == 0 {
		return Shape{}
	}
	minR, minC := s[0].R, s[0].C
	for _, c := range s[1:] {
		if c.R < minR {
			minR = c.R
		}
		if c.C < minC {
			minC = c.C
		}
	}
	out := make(Shape, len(s))
	for i, c := range s {
		out[i] = Cell{R: c.R - minR, C: c.C - minC}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Equal reports whether two normalized shapes contain the same cells in the
// same order.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// key returns a comparable string form of the shape for dedup lookups.
func (s Shape) key() string {
	buf := make([]byte, 0, len(s)*6)
	for _, c := range s {
		buf = append(buf, byte('0'+c.R), ',', byte('0'+c.C), ';')
	}
	return string(buf)
}

// transform applies an optional reflection followed by k quarter rotations
// and normalizes the result. Reflection is (r,c) -> (r,-c); one rotation step
// is (r,c) -> (c,-r).
func (s Shape) transform(k int, reflect bool) Shape {
	out := make(Shape, len(s))
	for i, cell := range s {
		x, y := cell.R, cell.C
		if reflect {
			y = -y
		}
		for n := 0; n < k%4; n++ {
			x, y = y, -x
		}
		out[i] = Cell{R: x, C: y}
	}
	return out.Normalize()
}

// uniqueOrientations enumerates the eight symmetry images of a shape in a
// fixed order (non-reflected rotations 0..3, then reflected rotations 0..3)
// and keeps the first occurrence of each distinct normalized form. The
// enumeration order determines candidate order in deterministic searches, so
// it must not change.
func uniqueOrientations(base Shape) []Shape {
	seen := make(map[string]bool, 8)
	var out []Shape
	for _, reflect := range []bool{false, true} {
		for k := 0; k < 4; k++ {
			v := base.transform(k, reflect)
			if k := v.key(); !seen[k] {
				seen[k] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// orientationTable is built once at package init and is read-only afterwards.
var orientationTable = func() map[PieceName][]Shape {
	table := make(map[PieceName][]Shape, len(Pentominoes))
	for name, cells := range Pentominoes {
		table[name] = uniqueOrientations(cells)
	}
	return table
}()

// Orientations returns the distinct orientations of a piece in their fixed
// enumeration order. The returned slice is shared and must not be mutated.
func Orientations(name PieceName) []Shape {
	return orientationTable[name]
}
