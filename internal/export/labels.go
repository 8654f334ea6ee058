package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PentoTrace/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each placement label's QR code.
type LabelInfo struct {
	Piece       model.PieceName `json:"piece"`
	SolutionNum int             `json:"solution"`
	ProblemName string          `json:"problem"`
	AnchorRow   int             `json:"row"`
	AnchorCol   int             `json:"col"`
	Cells       []model.Cell    `json:"cells"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page). Each label cell is approximately 66.7mm x 25.4mm on US
// Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per placement per
// solution. Each label carries the piece letter, its anchor position, and a
// QR code encoding the placement as JSON. Labels are laid out on a
// standard label sheet format (Avery 5160 / 3 columns x 10 rows on US
// Letter).
func ExportLabels(path string, p model.Problem, solutions []model.Solution) error {
	labels := CollectLabelInfos(p, solutions)
	if len(labels) == 0 {
		return fmt.Errorf("no placements to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for piece %s: %w", label.Piece, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d_%d_%d", info.Piece, info.SolutionNum, info.AnchorRow, info.AnchorCol)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	col := pieceColors[info.Piece]
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.Rect(textX, y+labelPadding, 4, 4, "F")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX+5, y+labelPadding)
	pdf.CellFormat(textW-5, 4.5, fmt.Sprintf("Piece %s", info.Piece), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Solution %d of %s", info.SolutionNum, info.ProblemName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Anchor @ (%d, %d)", info.AnchorRow, info.AnchorCol), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from a set of solutions for
// use in testing or alternative export formats.
func CollectLabelInfos(p model.Problem, solutions []model.Solution) []LabelInfo {
	var labels []LabelInfo
	for num, sol := range solutions {
		for _, pl := range sol {
			anchor := anchorCell(pl.Cells)
			cells := make([]model.Cell, len(pl.Cells))
			copy(cells, pl.Cells)
			model.SortCells(cells)
			labels = append(labels, LabelInfo{
				Piece:       pl.Piece,
				SolutionNum: num + 1,
				ProblemName: p.Name,
				AnchorRow:   anchor.R,
				AnchorCol:   anchor.C,
				Cells:       cells,
			})
		}
	}
	return labels
}
