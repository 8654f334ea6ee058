package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/PentoTrace/internal/model"
)

// Run is one saved solver run: the problem, the settings it ran with, and
// what came out.
type Run struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	CreatedAt string              `json:"created_at"`
	Problem   model.Problem       `json:"problem"`
	Settings  model.SolveSettings `json:"settings"`
	Seed      int64               `json:"seed,omitempty"`
	Steps     int                 `json:"steps,omitempty"`
	Solutions []model.Solution    `json:"solutions,omitempty"`
}

// NewRun creates a run with a fresh short id and the current timestamp.
func NewRun(name string, p model.Problem, settings model.SolveSettings) Run {
	return Run{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Problem:   p,
		Settings:  settings,
	}
}

// DefaultRunsPath returns the default path for the saved-run library.
func DefaultRunsPath() string {
	return filepath.Join(DefaultConfigDir(), "runs.json")
}

// SaveRuns persists the run library to the given path as JSON, creating
// parent directories as needed.
func SaveRuns(path string, runs []Run) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadRuns reads the run library from the given path.
// Returns an empty slice if the file does not exist.
func LoadRuns(path string) ([]Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Run{}, nil
		}
		return nil, err
	}
	var runs []Run
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

// AddRun appends a run to the library at path and saves it back.
func AddRun(path string, run Run) error {
	runs, err := LoadRuns(path)
	if err != nil {
		return err
	}
	runs = append(runs, run)
	return SaveRuns(path, runs)
}

// FindRun looks a run up by id.
func FindRun(runs []Run, id string) (Run, bool) {
	for _, r := range runs {
		if r.ID == id {
			return r, true
		}
	}
	return Run{}, false
}

// DeleteRun removes a run by id from the library at path and saves it
// back. Deleting an unknown id is an error.
func DeleteRun(path, id string) error {
	runs, err := LoadRuns(path)
	if err != nil {
		return err
	}
	kept := runs[:0]
	found := false
	for _, r := range runs {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("run %s not found", id)
	}
	return SaveRuns(path, kept)
}

// ExportRun writes a single run to a JSON file for sharing.
func ExportRun(path string, run Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportRun reads a single run from a JSON file. An imported run keeps its
// name and contents but gets a fresh id so it cannot collide with an
// existing library entry.
func ImportRun(path string) (Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Run{}, err
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, err
	}
	if run.Name == "" {
		return Run{}, errors.New("imported run has no name")
	}
	run.ID = uuid.New().String()[:8]
	return run, nil
}
