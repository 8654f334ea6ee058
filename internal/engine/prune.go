package engine

import "github.com/piwi3910/PentoTrace/internal/model"

// FeasibleRegions reports whether every 4-connected region of empty mask
// cells has a size divisible by the piece size. A region that fails can
// never be exactly covered by whole pentominoes, so any placement that
// creates one is a dead end. The check is sound: it never rejects a board
// from which a solution is still reachable.
func FeasibleRegions(b *model.Board) bool {
	deltas := [4]model.Cell{{R: -1}, {R: 1}, {C: -1}, {C: 1}}
	visited := make(map[model.Cell]bool)
	var stack []model.Cell
	for _, start := range b.Mask() {
		if visited[start] {
			continue
		}
		if _, filled := b.Occupied(start); filled {
			continue
		}
		size := 0
		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			for _, d := range deltas {
				n := model.Cell{R: c.R + d.R, C: c.C + d.C}
				if visited[n] || !b.Allowed(n) {
					continue
				}
				if _, filled := b.Occupied(n); filled {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
		if size%model.PieceSize != 0 {
			return false
		}
	}
	return true
}
