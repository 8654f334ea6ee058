// Package importer reads board masks from CSV and Excel grid files. It
// supports automatic delimiter detection and an optional piece-set row.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PentoTrace/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Problem  model.Problem
	Errors   []string
	Warnings []string
}

// Ok reports whether the import produced a usable problem.
func (r ImportResult) Ok() bool {
	return len(r.Errors) == 0
}

// filledMarks are the grid tokens that count as mask cells. Anything else,
// including an empty cell, is outside the mask.
var filledMarks = map[string]bool{
	"#": true, "1": true, "x": true, "X": true, "*": true,
}

// emptyMarks are the tokens explicitly meaning "not part of the mask".
// Unknown tokens produce a warning but are also treated as empty.
var emptyMarks = map[string]bool{
	"": true, ".": true, "0": true, "-": true, "_": true,
}

// piecesPrefix introduces an optional row naming the available pieces, for
// example "pieces: F I L P". Without it every pentomino is available.
const piecesPrefix = "pieces:"

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent multi-column split across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// ImportCSV imports a mask grid from a CSV file, detecting the delimiter
// automatically.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	return importFromReader(bytes.NewReader(data), delimiter, problemName(path), result.Warnings)
}

// ImportCSVFromReader imports a mask grid from a CSV reader with a known
// delimiter. Useful for testing and piped input.
func ImportCSVFromReader(reader io.Reader, delimiter rune, name string) ImportResult {
	return importFromReader(reader, delimiter, name, nil)
}

func importFromReader(reader io.Reader, delimiter rune, name string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, name, result.Warnings)
}

// ImportExcel imports a mask grid from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, problemName(path), nil)
}

// importFromRows is the shared grid parsing for CSV and Excel data. Each
// grid row is one board row; a trailing "pieces:" row restricts the piece
// set.
func importFromRows(rows [][]string, name string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	var mask []model.Cell
	pieces := model.AllPieceNames()
	rowCount := 0
	maxCols := 0

	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if names, ok, errMsg := parsePiecesRow(row); ok {
			if errMsg != "" {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", i+1, errMsg))
				return result
			}
			pieces = names
			continue
		}
		for col, raw := range row {
			token := strings.TrimSpace(raw)
			switch {
			case filledMarks[token]:
				mask = append(mask, model.Cell{R: rowCount, C: col})
				if col+1 > maxCols {
					maxCols = col + 1
				}
			case emptyMarks[token]:
			default:
				result.Warnings = append(result.Warnings, fmt.Sprintf("Row %d: unknown token %q treated as empty", i+1, token))
			}
		}
		rowCount++
	}

	if len(mask) == 0 {
		result.Errors = append(result.Errors, "No mask cells found")
		return result
	}
	if len(mask)%model.PieceSize != 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Mask has %d cells, not a multiple of %d; the problem cannot be solved exactly", len(mask), model.PieceSize))
	}
	if len(mask) > len(pieces)*model.PieceSize {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Mask has %d cells but only %d pieces are available", len(mask), len(pieces)))
	}

	result.Problem = model.NewProblem(name, rowCount, maxCols, mask, pieces)
	return result
}

// parsePiecesRow recognizes a "pieces: F I L ..." row. The second return
// value reports whether the row is a pieces row at all.
func parsePiecesRow(row []string) ([]model.PieceName, bool, string) {
	joined := strings.TrimSpace(strings.Join(row, " "))
	lower := strings.ToLower(joined)
	if !strings.HasPrefix(lower, piecesPrefix) {
		return nil, false, ""
	}
	rest := strings.TrimSpace(joined[len(piecesPrefix):])
	var names []model.PieceName
	seen := make(map[model.PieceName]bool)
	for _, field := range strings.Fields(rest) {
		name := model.PieceName(strings.ToUpper(field))
		if _, known := model.Pentominoes[name]; !known {
			return nil, true, fmt.Sprintf("unknown piece %q", field)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, true, "pieces row names no pieces"
	}
	return names, true, ""
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// problemName derives a problem name from the file path.
func problemName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
