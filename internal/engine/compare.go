package engine

import (
	"time"

	"github.com/piwi3910/PentoTrace/internal/model"
)

// ComparisonScenario is one search configuration to trace side by side.
type ComparisonScenario struct {
	Name    string `json:"name"`
	Pruning bool   `json:"pruning"`
}

// ComparisonResult pairs a scenario with the trace it produced and the
// headline numbers a report needs.
type ComparisonResult struct {
	Scenario   ComparisonScenario `json:"scenario"`
	Trace      *Trace             `json:"-"`
	Steps      int                `json:"steps"`
	Elapsed    time.Duration      `json:"elapsed"`
	Solutions  int                `json:"solutions"`
	NodesShown int                `json:"nodes_shown"`
	Aborted    bool               `json:"aborted"`
}

// BuildDefaultScenarios returns the standard pair: the unpruned baseline
// and the region-size pruned search.
func BuildDefaultScenarios() []ComparisonScenario {
	return []ComparisonScenario{
		{Name: "Vanilla backtracking", Pruning: false},
		{Name: "Region-size pruning", Pruning: true},
	}
}

// CompareScenarios traces the problem once per scenario under shared
// display bounds and collects the results in scenario order.
func CompareScenarios(p model.Problem, scenarios []ComparisonScenario, opts TraceOptions) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))
	for _, sc := range scenarios {
		o := opts
		o.Pruning = sc.Pruning
		tr := BuildTrace(p, o)
		results = append(results, ComparisonResult{
			Scenario:   sc,
			Trace:      tr,
			Steps:      tr.TotalSteps,
			Elapsed:    tr.TotalElapsed,
			Solutions:  tr.Solutions,
			NodesShown: len(tr.Nodes),
			Aborted:    tr.Aborted,
		})
	}
	return results
}
