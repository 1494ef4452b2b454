package preflight

import (
	"context"

	"par/internal/config"
	"par/internal/remote"
	"par/internal/store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minFreeBytes is the free space below which the data directory is flagged.
const minFreeBytes = 64 << 20

// RunAll executes every check for the given config. st and provider may be
// nil when they could not be constructed; their checks are reported failed.
func RunAll(ctx context.Context, cfg *config.Config, st *store.Store, provider remote.Provider) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Image directory", cfg.ImageDir()),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckFreeSpace("Data volume", cfg.Paths.DataDir, minFreeBytes),
	}

	if cfg.Provider.Kind == config.ProviderCommand {
		results = append(results, CheckProviderBinary(cfg.Provider.Command))
	}
	results = append(results, CheckProvider(ctx, provider))
	results = append(results, CheckStore(ctx, st))
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
