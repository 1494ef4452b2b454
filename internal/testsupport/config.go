package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"par/internal/config"
)

// ConfigOption adjusts a config built by NewConfig. It receives the temp
// root so options can place files next to the data directory.
type ConfigOption func(t testing.TB, root string, cfg *config.Config)

// NewConfig returns defaults rooted in a fresh t.TempDir: data under
// root/data, logs under root/logs, and a command provider at
// root/bin/par-provider that does not exist until WithProviderScript writes it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Provider.Command = filepath.Join(root, "bin", "par-provider")
	for _, opt := range opts {
		opt(t, root, &cfg)
	}
	return &cfg
}

// WithProviderScript installs script as the provider executable.
func WithProviderScript(script string) ConfigOption {
	return func(t testing.TB, root string, cfg *config.Config) {
		target := filepath.Join(root, "bin", "par-provider")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatalf("mkdir provider dir: %v", err)
		}
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			t.Fatalf("write provider script: %v", err)
		}
		cfg.Provider.Kind = config.ProviderCommand
		cfg.Provider.Command = target
	}
}

// BaseDir returns the temp root NewConfig created for cfg.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
