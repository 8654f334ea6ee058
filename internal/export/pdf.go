// Package export renders solved boards to shareable file formats.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PentoTrace/internal/model"
)

// pieceColor is an RGB fill for a placed piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors assigns each pentomino its fixed display color, shared with
// the label sheet legend.
var pieceColors = map[model.PieceName]pieceColor{
	"F": {R: 201, G: 133, B: 146},
	"I": {R: 198, G: 160, B: 122},
	"L": {R: 204, G: 181, B: 127},
	"N": {R: 110, G: 168, B: 176},
	"P": {R: 120, G: 179, B: 159},
	"T": {R: 99, G: 143, B: 170},
	"U": {R: 127, G: 136, B: 183},
	"V": {R: 133, G: 116, B: 175},
	"W": {R: 155, G: 126, B: 185},
	"X": {R: 192, G: 118, B: 144},
	"Y": {R: 200, G: 154, B: 112},
	"Z": {R: 122, G: 177, B: 168},
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document for a set of solutions to one
// problem. Each solution is rendered on its own page as a colored board
// diagram, followed by a summary page.
func ExportPDF(path string, p model.Problem, solutions []model.Solution) error {
	if len(solutions) == 0 {
		return fmt.Errorf("no solutions to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, sol := range solutions {
		pdf.AddPage()
		renderSolutionPage(pdf, p, sol, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, p, solutions)

	return pdf.OutputFileAndClose(path)
}

// renderSolutionPage draws a single solution on the current PDF page.
func renderSolutionPage(pdf *fpdf.Fpdf, p model.Problem, sol model.Solution, num int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Solution %d: %s (%d x %d)", num, p.Name, p.Rows, p.Cols)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Mask cells: %d", len(sol), len(p.Mask))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	// Scale to fit the board in the drawing area
	cell := math.Min(drawWidth/float64(p.Cols), drawHeight/float64(p.Rows))
	boardW := cell * float64(p.Cols)
	boardH := cell * float64(p.Rows)
	offsetX := marginLeft + (drawWidth-boardW)/2
	offsetY := drawAreaTop

	// Mask background; cells outside the mask stay white
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	for _, c := range p.Mask {
		pdf.Rect(offsetX+float64(c.C)*cell, offsetY+float64(c.R)*cell, cell, cell, "FD")
	}

	for _, pl := range sol {
		col := pieceColors[pl.Piece]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		for _, c := range pl.Cells {
			pdf.Rect(offsetX+float64(c.C)*cell, offsetY+float64(c.R)*cell, cell, cell, "FD")
		}

		// Piece letter at the first cell of the placement
		anchor := anchorCell(pl.Cells)
		pdf.SetFont("Helvetica", "B", letterFontSize(cell))
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(offsetX+float64(anchor.C)*cell, offsetY+float64(anchor.R)*cell+cell/2-2)
		pdf.CellFormat(cell, 4, string(pl.Piece), "", 0, "C", false, 0, "")
	}

	drawPieceOutlines(pdf, sol, cell, offsetX, offsetY)
	drawLegend(pdf, sol, offsetY+boardH+5)
	pdf.SetTextColor(0, 0, 0)
}

// drawPieceOutlines draws a heavier border along every edge where a cell's
// neighbor belongs to a different piece or lies outside the solution.
func drawPieceOutlines(pdf *fpdf.Fpdf, sol model.Solution, cell, offsetX, offsetY float64) {
	owner := make(map[model.Cell]model.PieceName)
	for _, pl := range sol {
		for _, c := range pl.Cells {
			owner[c] = pl.Piece
		}
	}

	pdf.SetDrawColor(20, 20, 20)
	pdf.SetLineWidth(0.6)
	for c, piece := range owner {
		x := offsetX + float64(c.C)*cell
		y := offsetY + float64(c.R)*cell
		if owner[model.Cell{R: c.R - 1, C: c.C}] != piece {
			pdf.Line(x, y, x+cell, y)
		}
		if owner[model.Cell{R: c.R + 1, C: c.C}] != piece {
			pdf.Line(x, y+cell, x+cell, y+cell)
		}
		if owner[model.Cell{R: c.R, C: c.C - 1}] != piece {
			pdf.Line(x, y, x, y+cell)
		}
		if owner[model.Cell{R: c.R, C: c.C + 1}] != piece {
			pdf.Line(x+cell, y, x+cell, y+cell)
		}
	}
}

// drawLegend renders a compact color legend below the board.
func drawLegend(pdf *fpdf.Fpdf, sol model.Solution, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces placed:", "", 0, "L", false, 0, "")

	names := make([]model.PieceName, 0, len(sol))
	for _, pl := range sol {
		names = append(names, pl.Piece)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	for _, name := range names {
		col := pieceColors[name]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(6, 4, string(name), "", 0, "L", false, 0, "")
		xPos += 12
	}
}

// renderSummaryPage draws the final page with per-solution statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, p model.Problem, solutions []model.Solution) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Tiling Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	summaryItems := []struct {
		label string
		value string
	}{
		{"Problem", p.Name},
		{"Board", fmt.Sprintf("%d x %d, %d mask cells", p.Rows, p.Cols, len(p.Mask))},
		{"Available pieces", fmt.Sprintf("%d", len(p.Pieces))},
		{"Solutions exported", fmt.Sprintf("%d", len(solutions))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Solution Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 50, 180}
	headers := []string{"Solution", "Pieces", "Signature"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 8)
	for i, sol := range solutions {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		sig := sol.Signature()
		if len(sig) > 90 {
			sig = sig[:90] + "..."
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(sol)),
			sig,
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PentoTrace - Pentomino Tiling Explorer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// anchorCell returns the row-major first cell of a placement.
func anchorCell(cells []model.Cell) model.Cell {
	anchor := cells[0]
	for _, c := range cells[1:] {
		if c.Less(anchor) {
			anchor = c
		}
	}
	return anchor
}

// letterFontSize returns a font size fitting the given cell edge in mm.
func letterFontSize(cell float64) float64 {
	switch {
	case cell > 25:
		return 12
	case cell > 15:
		return 9
	default:
		return 6
	}
}
