package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"whorl/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	sourcePath string
}

// setupCLITestEnv writes a config file pointing every path at a temp
// directory and running against the simulated engine.
func setupCLITestEnv(t *testing.T, sourceLines ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	sourcePath := ""
	if len(sourceLines) > 0 {
		sourcePath = testsupport.WriteSourceFile(t, sourceLines...)
	}

	configPath := filepath.Join(base, "whorl.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[engine]
provider = "sim"

[ingest]
source = %q
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		sourcePath,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		sourcePath: sourcePath,
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
