package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"par/internal/config"
	"par/internal/testsupport"
)

// providerScript serves three artists (11, 22, 33) to the token "good".
const providerScript = `#!/bin/sh
case "$1" in
validate_token)
  if [ "$PAR_TOKEN" = "good" ] || [ "$PAR_TOKEN" = "better" ]; then echo true; else echo false; fi ;;
validate_timezone)
  case "$2" in UTC|Etc/GMT-9) echo true ;; *) echo false ;; esac ;;
download_artist_list)
  echo '[11, 22, 33]' ;;
download_artist_info)
  printf 'JPEG' > "$PAR_IMAGE_DIR/u_$2.jpeg"
  printf '{"artist":{"id":%s,"name":"artist-%s","recent_count":3,"is_followed":true},"last_bookmarked":{"id":0},"illusts":[{"id":%s1,"views":1200,"bookmarks":7,"upload_date":"2024-01-02","is_bookmarked":false},{"id":0},{"id":0},{"id":0}]}' "$2" "$2" "$2" ;;
toggle_bookmark|toggle_follow)
  echo true ;;
*)
  echo "unknown command $1" >&2; exit 1 ;;
esac
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithProviderScript(providerScript))
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	configPath := filepath.Join(base, "par.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func (e *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var in io.Reader
	if stdin != "" {
		in = strings.NewReader(stdin)
	}
	return runCLI(t, in, append([]string{"--config", e.configPath}, args...))
}

func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := e.run(t, "", args...)
	if err != nil {
		t.Fatalf("par %s: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

func runCLI(t *testing.T, stdin io.Reader, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.SetIn(stdin)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
