package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pubcrates/internal/testutil"
)

// execute runs the root command with args in a fresh working directory
// state. Flag values are reset first since cobra keeps them between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	closeSession()
	if stderr.Len() > 0 {
		t.Logf("stderr:\n%s", stderr.String())
	}
	return stdout.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// inTempDir switches to an empty working directory with no config overrides.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PUBCRATES_CONFIG_PATH", "")
	return dir
}

func TestRootCommand_HumanReport(t *testing.T) {
	inTempDir(t)
	fixture := testutil.LoadFixture(t, "basic")

	out, err := execute(t, "--doc-json", fixture.DocJSONPath)
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}

	want, err := os.ReadFile(fixture.ExpectedPath("report.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimRight(out, "\n") != strings.TrimRight(string(want), "\n") {
		t.Errorf("report mismatch:\n%s\nwant:\n%s", out, want)
	}
}

func TestRootCommand_IncludeStdAndJSON(t *testing.T) {
	inTempDir(t)
	fixture := testutil.LoadFixture(t, "basic")

	out, err := execute(t, "--doc-json", fixture.DocJSONPath, "--include-std", "--format", "json", "--workers", "4")
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}

	for _, want := range []string{`"includeStd": true`, `"name": "alloc"`, `"name": "core"`, `"path": "core::fmt::Debug"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON report missing %s:\n%s", want, out)
		}
	}
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := inTempDir(t)
	fixture := testutil.LoadFixture(t, "basic")

	if err := os.MkdirAll(filepath.Join(dir, ".pubcrates"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := `{"version": 1, "format": "yaml", "includeStd": true}`
	if err := os.WriteFile(filepath.Join(dir, ".pubcrates", "config.json"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--doc-json", fixture.DocJSONPath)
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if !strings.Contains(out, "crate: foo") || !strings.Contains(out, "name: core") {
		t.Errorf("expected YAML report with std crates:\n%s", out)
	}

	// Flags win over the file.
	out, err = execute(t, "--doc-json", fixture.DocJSONPath, "--format", "human", "--include-std=false")
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if strings.Contains(out, "core") || !strings.HasPrefix(out, "bar\n") {
		t.Errorf("expected human report without std crates:\n%s", out)
	}
}

func TestRootCommand_MissingArtifact(t *testing.T) {
	inTempDir(t)

	out, err := execute(t, "--doc-json", "does-not-exist.json")
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
	if !strings.Contains(err.Error(), "ARTIFACT_NOT_FOUND") {
		t.Errorf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("no partial output expected, got %q", out)
	}
}

func TestCheckCommand(t *testing.T) {
	inTempDir(t)
	fixture := testutil.LoadFixture(t, "basic")

	out, err := execute(t, "check", "--doc-json", fixture.DocJSONPath, "--manifest-path", fixture.ManifestPath)
	if exitCode(err) != 1 {
		t.Fatalf("expected exit status 1, got err=%v", err)
	}
	if _, ok := err.(*exitError); !ok {
		t.Fatalf("expected a silent exit, got %v", err)
	}
	if !strings.Contains(out, "Crates that were allowed but not in public API:\n    extra_crate\n") {
		t.Errorf("missing unused crate:\n%s", out)
	}
	if strings.Contains(out, "weren't allowed") {
		t.Errorf("bar is allowed:\n%s", out)
	}
	if !strings.Contains(out, "allowed = ['bar']") && !strings.Contains(out, `allowed = ["bar"]`) {
		t.Errorf("missing allow-list suggestion:\n%s", out)
	}
}

func TestHistoryAndDiffCommands(t *testing.T) {
	inTempDir(t)
	basic := testutil.LoadFixture(t, "basic")

	for i := 0; i < 2; i++ {
		if _, err := execute(t, "--doc-json", basic.DocJSONPath, "--record"); err != nil {
			t.Fatalf("recording run %d: %v", i, err)
		}
	}

	out, err := execute(t, "history", "--format", "json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if got := strings.Count(out, `"crate": "foo"`); got != 2 {
		t.Errorf("expected 2 runs of foo, got %d:\n%s", got, out)
	}

	out, err = execute(t, "diff", "--exit-code")
	if err != nil {
		t.Fatalf("diff of identical runs: %v", err)
	}
	if !strings.Contains(out, "No changes in the public API.") {
		t.Errorf("unexpected diff output:\n%s", out)
	}

	if _, err := execute(t, "--doc-json", basic.DocJSONPath, "--record", "--include-std"); err != nil {
		t.Fatalf("recording std run: %v", err)
	}
	out, err = execute(t, "diff", "--exit-code")
	if exitCode(err) != 1 {
		t.Fatalf("expected exit status 1 for changed API, got %v", err)
	}
	for _, want := range []string{"Components added:", "+ alloc", "+ core::fmt::Debug"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff output missing %q:\n%s", want, out)
		}
	}
}

func TestDiffCommand_NotEnoughRuns(t *testing.T) {
	inTempDir(t)

	_, err := execute(t, "diff")
	if err == nil || !strings.Contains(err.Error(), "HISTORY_UNAVAILABLE") {
		t.Fatalf("expected HISTORY_UNAVAILABLE, got %v", err)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if !strings.HasPrefix(out, "pubcrates version ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestInitCommand(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, ".pubcrates", "config.json")

	out, err := execute(t, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if out != "Wrote .pubcrates/config.json\n" {
		t.Errorf("unexpected init output %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), `"format": "human"`) {
		t.Errorf("config is not the default:\n%s", data)
	}

	// A second run keeps an edited file.
	if err := os.WriteFile(path, []byte(`{"version": 1, "format": "json"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "init")
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.HasPrefix(out, "Already initialized") {
		t.Errorf("unexpected output %q", out)
	}
	if data, _ := os.ReadFile(path); !strings.Contains(string(data), `"json"`) {
		t.Errorf("init without --force overwrote the config:\n%s", data)
	}

	if _, err := execute(t, "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	if data, _ := os.ReadFile(path); !strings.Contains(string(data), `"format": "human"`) {
		t.Errorf("init --force kept the old config:\n%s", data)
	}
}

func TestInitCommand_InvalidConfig(t *testing.T) {
	dir := inTempDir(t)
	if err := os.MkdirAll(filepath.Join(dir, ".pubcrates"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".pubcrates", "config.json"), []byte(`{"version": 7}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "init", "--force"); err != nil {
		t.Fatalf("init --force must repair an invalid config: %v", err)
	}
	if _, err := execute(t, "history"); err != nil {
		t.Errorf("config still invalid after init --force: %v", err)
	}
}

func TestConfigShowCommand(t *testing.T) {
	dir := inTempDir(t)
	t.Setenv("PUBCRATES_ANALYSIS_WORKERS", "")
	os.Unsetenv("PUBCRATES_ANALYSIS_WORKERS")

	out, err := execute(t, "config", "show", "--diff")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.HasPrefix(out, "Source: defaults (no config file)\n") {
		t.Errorf("unexpected source:\n%s", out)
	}
	if !strings.Contains(out, "All settings are at their defaults.") {
		t.Errorf("expected no differences:\n%s", out)
	}

	if err := os.MkdirAll(filepath.Join(dir, ".pubcrates"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := `{"version": 1, "format": "yaml"}`
	if err := os.WriteFile(filepath.Join(dir, ".pubcrates", "config.json"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PUBCRATES_ANALYSIS_WORKERS", "4")

	out, err = execute(t, "config", "show", "--diff")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{
		"Source: .pubcrates/config.json\n",
		"PUBCRATES_ANALYSIS_WORKERS=4 -> analysis.workers\n",
		"analysis.workers  4  (default: 1)\n",
		"format            yaml  (default: human)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "output.indent") {
		t.Errorf("--diff listed a default setting:\n%s", out)
	}

	out, err = execute(t, "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("config show --format json: %v", err)
	}
	for _, want := range []string{`"configPath": ".pubcrates/config.json"`, `"output.indent": 4`, `"key": "analysis.workers"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %s:\n%s", want, out)
		}
	}
}

func TestConfigShowCommand_InvalidConfig(t *testing.T) {
	dir := inTempDir(t)
	if err := os.MkdirAll(filepath.Join(dir, ".pubcrates"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".pubcrates", "config.json"), []byte(`{"version": 1, "format": "xml"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "config", "show")
	if err == nil || !strings.Contains(err.Error(), "CONFIG_INVALID") {
		t.Fatalf("expected CONFIG_INVALID, got %v", err)
	}
}

func TestConfigEnvCommand(t *testing.T) {
	inTempDir(t)
	t.Setenv("PUBCRATES_LOG_LEVEL", "debug")

	out, err := execute(t, "config", "env")
	if err != nil {
		t.Fatalf("config env: %v", err)
	}
	if !strings.Contains(out, "PUBCRATES_LOG_LEVEL=debug\n") {
		t.Errorf("missing set variable:\n%s", out)
	}
	if !strings.Contains(out, "PUBCRATES_CONFIG_PATH") {
		t.Errorf("missing config path variable:\n%s", out)
	}
}
