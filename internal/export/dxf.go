package export

import (
	"fmt"
	"sort"

	"github.com/piwi3910/PentoTrace/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// dxfCellSize is the drawing-unit edge length of one board cell.
const dxfCellSize = 10.0

// layerColors cycles piece layers through the standard DXF color indices.
var layerColors = []color.ColorNumber{
	color.Red, color.Yellow, color.Green, color.Cyan,
	color.Blue, color.Magenta, color.White,
}

// ExportDXF writes one solution as a DXF drawing: a layer per piece, each
// holding the line segments of the piece's outline. Rows grow downward on
// the board but upward in DXF coordinates, so the board is flipped
// vertically to keep the drawing upright.
func ExportDXF(path string, p model.Problem, sol model.Solution) error {
	if len(sol) == 0 {
		return fmt.Errorf("no placements to export")
	}

	owner := make(map[model.Cell]model.PieceName)
	for _, pl := range sol {
		for _, c := range pl.Cells {
			owner[c] = pl.Piece
		}
	}

	ordered := make([]model.Placement, len(sol))
	copy(ordered, sol)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Piece < ordered[j].Piece })

	drawing := dxf.NewDrawing()
	for i, pl := range ordered {
		layer := fmt.Sprintf("piece-%s", pl.Piece)
		if _, err := drawing.AddLayer(layer, layerColors[i%len(layerColors)], dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layer, err)
		}
		for _, seg := range outlineSegments(owner, pl, p.Rows) {
			if _, err := drawing.Line(seg[0], seg[1], 0, seg[2], seg[3], 0); err != nil {
				return fmt.Errorf("failed to draw piece %s: %w", pl.Piece, err)
			}
		}
	}

	return drawing.SaveAs(path)
}

// outlineSegments collects the [x1 y1 x2 y2] line segments along every cell
// edge where the neighbor belongs to a different piece or no piece at all.
func outlineSegments(owner map[model.Cell]model.PieceName, pl model.Placement, rows int) [][4]float64 {
	var segs [][4]float64
	for _, c := range pl.Cells {
		left := dxfCellSize * float64(c.C)
		right := left + dxfCellSize
		top := dxfCellSize * float64(rows-c.R)
		bottom := top - dxfCellSize

		if owner[model.Cell{R: c.R - 1, C: c.C}] != pl.Piece {
			segs = append(segs, [4]float64{left, top, right, top})
		}
		if owner[model.Cell{R: c.R + 1, C: c.C}] != pl.Piece {
			segs = append(segs, [4]float64{left, bottom, right, bottom})
		}
		if owner[model.Cell{R: c.R, C: c.C - 1}] != pl.Piece {
			segs = append(segs, [4]float64{left, bottom, left, top})
		}
		if owner[model.Cell{R: c.R, C: c.C + 1}] != pl.Piece {
			segs = append(segs, [4]float64{right, bottom, right, top})
		}
	}
	return segs
}
