package model

import "testing"

func testProblem3x5() Problem {
	return RectProblem(3, 5, []PieceName{"I", "L", "P"})
}

func TestFirstEmptyScansRowMajor(t *testing.T) {
	b := NewBoard(testProblem3x5())

	c, ok := b.FirstEmpty()
	if !ok {
		t.Fatal("empty board should have a first empty cell")
	}
	if c != (Cell{R: 0, C: 0}) {
		t.Errorf("expected first empty at 0,0, got %s", c)
	}

	b.Place("I", []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}})
	c, ok = b.FirstEmpty()
	if !ok {
		t.Fatal("board is not full yet")
	}
	if c != (Cell{R: 1, C: 0}) {
		t.Errorf("expected first empty at 1,0, got %s", c)
	}
}

func TestFirstEmptyOnFullBoard(t *testing.T) {
	b := NewBoard(RectProblem(1, 5, []PieceName{"I"}))
	b.Place("I", []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}})
	if _, ok := b.FirstEmpty(); ok {
		t.Error("fully covered board should report no empty cell")
	}
}

func TestCanPlaceRejectsOutsideAndOccupied(t *testing.T) {
	b := NewBoard(testProblem3x5())

	if b.CanPlace([]Cell{{0, 4}, {0, 5}}) {
		t.Error("cells outside the mask should be rejected")
	}
	if b.CanPlace([]Cell{{-1, 0}}) {
		t.Error("negative coordinates should be rejected")
	}

	cells := []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}}
	if !b.CanPlace(cells) {
		t.Fatal("empty row should be placeable")
	}
	b.Place("I", cells)
	if b.CanPlace([]Cell{{0, 2}, {1, 2}}) {
		t.Error("occupied cell should be rejected")
	}
}

func TestPlaceRemoveRoundTrip(t *testing.T) {
	b := NewBoard(testProblem3x5())
	cells := []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}}

	b.Place("I", cells)
	if !b.Used("I") {
		t.Error("piece should be marked used after Place")
	}
	if owner, ok := b.Occupied(Cell{0, 2}); !ok || owner != "I" {
		t.Errorf("cell 0,2 should be owned by I, got %s (ok=%v)", owner, ok)
	}

	b.Remove("I", cells)
	if b.Used("I") {
		t.Error("piece should be free again after Remove")
	}
	if _, ok := b.Occupied(Cell{0, 2}); ok {
		t.Error("cell 0,2 should be empty after Remove")
	}
	if !b.CanPlace(cells) {
		t.Error("cells should be placeable again after Remove")
	}
}

func TestPlaceContractViolationsPanic(t *testing.T) {
	expectPanic := func(name string, f func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		f()
	}

	b := NewBoard(testProblem3x5())
	cells := []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}}
	b.Place("I", cells)

	expectPanic("double use", func() {
		b2 := NewBoard(testProblem3x5())
		b2.Place("L", []Cell{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}})
		b2.Place("L", []Cell{{0, 4}, {1, 4}, {1, 3}, {1, 2}, {1, 1}})
	})
	expectPanic("overlap", func() {
		b.Place("L", []Cell{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}})
	})
	expectPanic("remove unplaced", func() {
		b.Remove("P", cells)
	})
	expectPanic("remove foreign cells", func() {
		b.Remove("I", []Cell{{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}})
	})
}

func TestBoardSignatureIsCanonical(t *testing.T) {
	a := map[Cell]PieceName{{0, 1}: "I", {0, 0}: "I"}
	b := map[Cell]PieceName{{0, 0}: "I", {0, 1}: "I"}
	if BoardSignature(a) != BoardSignature(b) {
		t.Error("signatures should not depend on map iteration order")
	}
	if BoardSignature(a) == BoardSignature(map[Cell]PieceName{{0, 0}: "I"}) {
		t.Error("different occupancies should have different signatures")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	b := NewBoard(testProblem3x5())
	cells := []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}}
	b.Place("I", cells)

	snap := b.Snapshot()
	b.Remove("I", cells)
	if len(snap) != 5 {
		t.Errorf("snapshot should retain 5 cells after board mutation, got %d", len(snap))
	}
}
