package preflight

import (
	"context"

	"whorl/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckProvider(cfg.Engine.Provider),
	}

	// Device availability only makes sense when the provider resolves.
	if last := results[len(results)-1]; last.Passed {
		results = append(results, CheckDevices(cfg))
	}

	results = append(results, CheckRoster(ctx, cfg))

	if cfg.Ingest.Source != "" {
		results = append(results, CheckSource(cfg.Ingest.Source))
	}

	return results
}
