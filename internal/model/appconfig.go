package model

// AppConfig holds application-wide preferences and default limits.
type AppConfig struct {
	// Defaults applied to new solver runs
	DefaultPruning     bool `json:"default_pruning"`
	DefaultMaxSteps    int  `json:"default_max_steps"`
	DefaultMaxAttempts int  `json:"default_max_attempts"`

	// Trace display bounds
	DisplayDepth    int `json:"display_depth"`
	DisplayChildren int `json:"display_children"`
	HighlightDepth  int `json:"highlight_depth"`
	NodeBudget      int `json:"node_budget"`

	// Application preferences
	RecentRuns []string `json:"recent_runs"`
}

// DefaultAppConfig returns an AppConfig populated with the limits used by
// the bundled visualizations.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultPruning:     true,
		DefaultMaxSteps:    0,
		DefaultMaxAttempts: 300,
		DisplayDepth:       3,
		DisplayChildren:    3,
		HighlightDepth:     12,
		NodeBudget:         1_500_000,
		RecentRuns:         []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// SolveSettings struct, used when starting a run without explicit settings.
func (c AppConfig) ApplyToSettings(s *SolveSettings) {
	s.Pruning = c.DefaultPruning
	s.MaxSteps = c.DefaultMaxSteps
}
