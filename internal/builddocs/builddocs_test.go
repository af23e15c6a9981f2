package builddocs

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubcrates/internal/errors"
)

func writeCrate(t *testing.T) (dir, manifestPath string) {
	t.Helper()
	dir = t.TempDir()
	manifestPath = filepath.Join(dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(manifestPath, []byte("[package]\nname = \"my-crate\"\n"), 0o644))
	return dir, manifestPath
}

func writeArtifact(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestBuild_RunsCargo(t *testing.T) {
	t.Setenv(TargetDirEnv, "")
	dir, manifestPath := writeCrate(t)
	artifact := filepath.Join(dir, "target", "doc", "my_crate.json")

	runner := NewMockRunner()
	runner.SetLookPath("cargo", "/usr/bin/cargo")
	runner.SetCommand("cargo", "", "", nil)
	runner.OnRun = func(string, []string) { writeArtifact(t, artifact) }

	path, err := (&Builder{Runner: runner}).Build(context.Background(), Options{ManifestPath: manifestPath})
	require.NoError(t, err)
	assert.Equal(t, artifact, path)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{
		"cargo", "+nightly", "rustdoc", "--all-features", "--manifest-path", manifestPath,
		"--", "-Z", "unstable-options", "--output-format", "json",
	}, calls[0])
}

func TestBuild_SkipBuild(t *testing.T) {
	t.Setenv(TargetDirEnv, "")
	dir, manifestPath := writeCrate(t)
	artifact := filepath.Join(dir, "target", "x86_64-unknown-linux-gnu", "doc", "my_crate.json")
	writeArtifact(t, artifact)

	runner := NewMockRunner()
	path, err := (&Builder{Runner: runner}).Build(context.Background(), Options{ManifestPath: manifestPath, SkipBuild: true})
	require.NoError(t, err)

	assert.Equal(t, artifact, path)
	assert.Empty(t, runner.Calls())
}

func TestBuild_TargetDir(t *testing.T) {
	_, manifestPath := writeCrate(t)
	fromEnv := t.TempDir()
	fromFlag := t.TempDir()
	writeArtifact(t, filepath.Join(fromEnv, "doc", "my_crate.json"))
	writeArtifact(t, filepath.Join(fromFlag, "doc", "my_crate.json"))
	t.Setenv(TargetDirEnv, fromEnv)

	b := &Builder{Runner: NewMockRunner()}

	path, err := b.Build(context.Background(), Options{ManifestPath: manifestPath, SkipBuild: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fromEnv, "doc", "my_crate.json"), path)

	path, err = b.Build(context.Background(), Options{ManifestPath: manifestPath, SkipBuild: true, TargetDir: fromFlag})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fromFlag, "doc", "my_crate.json"), path)
}

func TestBuild_Failures(t *testing.T) {
	t.Setenv(TargetDirEnv, "")
	_, manifestPath := writeCrate(t)

	t.Run("no cargo", func(t *testing.T) {
		_, err := (&Builder{Runner: NewMockRunner()}).Build(context.Background(), Options{ManifestPath: manifestPath})
		assert.True(t, errors.HasCode(err, errors.DocBuildFailed), "got %v", err)
	})

	t.Run("cargo fails", func(t *testing.T) {
		runner := NewMockRunner()
		runner.SetLookPath("cargo", "/usr/bin/cargo")
		runner.SetCommand("cargo", "", "error: toolchain 'nightly' is not installed", stderrors.New("exit status 1"))

		_, err := (&Builder{Runner: runner}).Build(context.Background(), Options{ManifestPath: manifestPath})
		assert.True(t, errors.HasCode(err, errors.DocBuildFailed), "got %v", err)
	})

	t.Run("no artifact", func(t *testing.T) {
		runner := NewMockRunner()
		runner.SetLookPath("cargo", "/usr/bin/cargo")
		runner.SetCommand("cargo", "", "", nil)

		_, err := (&Builder{Runner: runner}).Build(context.Background(), Options{ManifestPath: manifestPath})
		assert.True(t, errors.HasCode(err, errors.ArtifactNotFound), "got %v", err)
	})

	t.Run("no manifest", func(t *testing.T) {
		_, err := (&Builder{Runner: NewMockRunner()}).Build(context.Background(), Options{ManifestPath: filepath.Join(t.TempDir(), "Cargo.toml")})
		assert.True(t, errors.HasCode(err, errors.ManifestNotFound), "got %v", err)
	})
}

func TestFindArtifact(t *testing.T) {
	target := t.TempDir()
	writeArtifact(t, filepath.Join(target, "b", "doc", "my_crate.json"))
	writeArtifact(t, filepath.Join(target, "a", "doc", "my_crate.json"))
	writeArtifact(t, filepath.Join(target, "a", "other", "my_crate.json"))
	writeArtifact(t, filepath.Join(target, "a", "doc", "other.json"))

	path, err := FindArtifact(target, "my_crate")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "a", "doc", "my_crate.json"), path)

	_, err = FindArtifact(filepath.Join(target, "missing"), "my_crate")
	assert.True(t, errors.HasCode(err, errors.ArtifactNotFound), "got %v", err)
}

func TestFindArtifact_Nested(t *testing.T) {
	target := t.TempDir()
	writeArtifact(t, filepath.Join(target, "x86_64-unknown-linux-gnu", "doc", "my_crate.json"))
	writeArtifact(t, filepath.Join(target, "doc", "my_crate.json"))
	// A directory carrying the artifact's name is not a match.
	require.NoError(t, os.MkdirAll(filepath.Join(target, "aaa", "doc", "my_crate.json"), 0o755))

	path, err := FindArtifact(target, "my_crate")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "doc", "my_crate.json"), path)

	_, err = FindArtifact(target, "other")
	assert.True(t, errors.HasCode(err, errors.ArtifactNotFound), "got %v", err)
}

func TestArgs_TargetDir(t *testing.T) {
	assert.Equal(t, []string{
		"+nightly", "rustdoc", "--all-features", "--manifest-path", "Cargo.toml", "--target-dir", "out",
		"--", "-Z", "unstable-options", "--output-format", "json",
	}, Args("Cargo.toml", "out"))
}
