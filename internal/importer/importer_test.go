package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/PentoTrace/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "#,#,#\n#,#,#\n", ','},
		{"semicolon", "#;#;#\n#;#;#\n", ';'},
		{"tab", "#\t#\t#\n#\t#\t#\n", '\t'},
		{"pipe", "#|#|#\n#|#|#\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCSVDelimiter([]byte(tt.data)))
		})
	}
}

func TestImportCSVFromReader(t *testing.T) {
	grid := "#,#,#,#,#\n#,#,#,#,#\n"
	result := ImportCSVFromReader(strings.NewReader(grid), ',', "strip")

	require.True(t, result.Ok(), "errors: %v", result.Errors)
	assert.Equal(t, "strip", result.Problem.Name)
	assert.Equal(t, 2, result.Problem.Rows)
	assert.Equal(t, 5, result.Problem.Cols)
	assert.Len(t, result.Problem.Mask, 10)
	assert.Len(t, result.Problem.Pieces, 12, "all pieces available by default")
}

func TestImportCSVFromReaderWithHoles(t *testing.T) {
	grid := "#,.,#\n#,#,#\n"
	result := ImportCSVFromReader(strings.NewReader(grid), ',', "holes")

	require.True(t, result.Ok())
	assert.Len(t, result.Problem.Mask, 5)
	assert.NotContains(t, result.Problem.Mask, model.Cell{R: 0, C: 1})
}

func TestImportCSVPiecesRow(t *testing.T) {
	grid := "#,#,#,#,#\n#,#,#,#,#\npieces: L P\n"
	result := ImportCSVFromReader(strings.NewReader(grid), ',', "subset")

	require.True(t, result.Ok(), "errors: %v", result.Errors)
	assert.Equal(t, []model.PieceName{"L", "P"}, result.Problem.Pieces)
	assert.Equal(t, 2, result.Problem.Rows, "the pieces row is not a board row")
}

func TestImportCSVPiecesRowRejectsUnknown(t *testing.T) {
	grid := "#,#,#,#,#\npieces: Q\n"
	result := ImportCSVFromReader(strings.NewReader(grid), ',', "bad")

	assert.False(t, result.Ok())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unknown piece")
}

func TestImportCSVWarnsOnBadCellCount(t *testing.T) {
	grid := "#,#,#\n#,#,#\n"
	result := ImportCSVFromReader(strings.NewReader(grid), ',', "six")

	require.True(t, result.Ok())
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "not a multiple of 5")
}

func TestImportCSVWarnsOnUnknownToken(t *testing.T) {
	grid := "#,?,#,#,#\n#,#,#,#,#\n"
	result := ImportCSVFromReader(strings.NewReader(grid), ',', "noisy")

	require.True(t, result.Ok())
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "unknown token") {
			found = true
		}
	}
	assert.True(t, found, "expected an unknown-token warning, got %v", result.Warnings)
}

func TestImportCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.csv")
	require.NoError(t, os.WriteFile(path, []byte("#;#;#;#;#\n#;#;#;#;#\n"), 0644))

	result := ImportCSV(path)
	require.True(t, result.Ok(), "errors: %v", result.Errors)
	assert.Equal(t, "board", result.Problem.Name)
	assert.Len(t, result.Problem.Mask, 10)
	assert.NotEmpty(t, result.Warnings, "non-comma delimiter should be reported")
}

func TestImportCSVMissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.False(t, result.Ok())
}

func TestImportCSVEmptyGrid(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(".,.\n.,.\n"), ',', "blank")
	assert.False(t, result.Ok())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "No mask cells")
}

func TestImportExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.xlsx")

	f := excelize.NewFile()
	for r := 0; r < 3; r++ {
		for c := 0; c < 5; c++ {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, "#"))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result := ImportExcel(path)
	require.True(t, result.Ok(), "errors: %v", result.Errors)
	assert.Equal(t, 3, result.Problem.Rows)
	assert.Equal(t, 5, result.Problem.Cols)
	assert.Len(t, result.Problem.Mask, 15)
}

func TestImportExcelMissingFile(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.False(t, result.Ok())
}
