package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PentoTrace/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(name string) Run {
	return NewRun(name, model.RectProblem(6, 10, model.AllPieceNames()), model.DefaultSolveSettings())
}

func TestNewRunAssignsShortID(t *testing.T) {
	a := sampleRun("first")
	b := sampleRun("second")
	assert.Len(t, a.ID, 8)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.CreatedAt)
}

func TestSaveAndLoadRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	runs := []Run{sampleRun("one"), sampleRun("two")}

	require.NoError(t, SaveRuns(path, runs))
	loaded, err := LoadRuns(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, runs[0].ID, loaded[0].ID)
	assert.Equal(t, "rect-6x10", loaded[0].Problem.Name)
	assert.Len(t, loaded[0].Problem.Mask, 60)
}

func TestLoadRunsMissingFile(t *testing.T) {
	loaded, err := LoadRuns(filepath.Join(t.TempDir(), "runs.json"))
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestAddAndFindRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	run := sampleRun("added")
	require.NoError(t, AddRun(path, run))

	loaded, err := LoadRuns(path)
	require.NoError(t, err)
	found, ok := FindRun(loaded, run.ID)
	require.True(t, ok)
	assert.Equal(t, "added", found.Name)

	_, ok = FindRun(loaded, "missing1")
	assert.False(t, ok)
}

func TestDeleteRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	keep := sampleRun("keep")
	drop := sampleRun("drop")
	require.NoError(t, SaveRuns(path, []Run{keep, drop}))

	require.NoError(t, DeleteRun(path, drop.ID))
	loaded, err := LoadRuns(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, keep.ID, loaded[0].ID)

	assert.Error(t, DeleteRun(path, drop.ID), "deleting twice should fail")
}

func TestExportAndImportRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	run := sampleRun("shared")
	run.Solutions = []model.Solution{{
		{Piece: "I", Cells: []model.Cell{{R: 0, C: 0}, {R: 0, C: 1}, {R: 0, C: 2}, {R: 0, C: 3}, {R: 0, C: 4}}},
	}}
	require.NoError(t, ExportRun(path, run))

	imported, err := ImportRun(path)
	require.NoError(t, err)
	assert.Equal(t, "shared", imported.Name)
	assert.NotEqual(t, run.ID, imported.ID, "imported runs get a fresh id")
	require.Len(t, imported.Solutions, 1)
	assert.Equal(t, run.Solutions[0].Signature(), imported.Solutions[0].Signature())
}

func TestImportRunRejectsNameless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	run := sampleRun("")
	require.NoError(t, ExportRun(path, run))

	_, err := ImportRun(path)
	assert.Error(t, err)
}

func TestBackupRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "all.json")
	cfg := model.DefaultAppConfig()
	runs := []Run{sampleRun("backed-up")}

	require.NoError(t, ExportAllData(path, cfg, runs))
	backup, err := ImportAllData(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", backup.Version)
	assert.Equal(t, cfg, backup.Config)
	require.Len(t, backup.Runs, 1)
	assert.Equal(t, runs[0].ID, backup.Runs[0].ID)
}

func TestImportAllDataRejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, ExportRun(path, sampleRun("not-a-backup")))

	_, err := ImportAllData(path)
	assert.Error(t, err)
}
