// Package builddocs produces the rustdoc JSON artifact of a crate by running
// cargo on the nightly toolchain, then locates it under the target
// directory.
package builddocs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"pubcrates/internal/errors"
	"pubcrates/internal/manifest"
	"pubcrates/internal/slogutil"
)

// TargetDirEnv overrides the default target directory, as it does for cargo.
const TargetDirEnv = "CARGO_TARGET_DIR"

// Options controls one build.
type Options struct {
	// ManifestPath is the crate's Cargo.toml. Empty means manifest.DefaultPath.
	ManifestPath string
	// SkipBuild only searches for an artifact from an earlier build.
	SkipBuild bool
	// TargetDir overrides CARGO_TARGET_DIR and the default target directory.
	TargetDir string
}

// Builder runs cargo rustdoc through Runner.
type Builder struct {
	Runner ExecRunner
	Logger *slog.Logger
}

// NewBuilder returns a Builder backed by os/exec.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{Runner: NewRealRunner(0), Logger: logger}
}

// Build returns the path of the crate's rustdoc JSON artifact, building it
// first unless opts.SkipBuild is set.
func (b *Builder) Build(ctx context.Context, opts Options) (string, error) {
	logger := b.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return "", err
	}
	targetDir := resolveTargetDir(m, opts.TargetDir)

	if !opts.SkipBuild {
		if _, err := b.Runner.LookPath("cargo"); err != nil {
			return "", errors.Newf(errors.DocBuildFailed, err, "cargo not found in PATH")
		}

		args := Args(m.Path, opts.TargetDir)
		logger.Info("Building rustdoc JSON", "crate", m.Package.Name, "manifest", m.Path)
		_, stderr, err := b.Runner.Run(ctx, "cargo", args...)
		if err != nil {
			logger.Debug("cargo rustdoc failed", "stderr", stderr)
			return "", errors.Newf(errors.DocBuildFailed, err, "failed to build docs for %s", m.Package.Name).
				WithDetails(map[string]interface{}{"stderr": lastLines(stderr, 20)})
		}
	}

	path, err := FindArtifact(targetDir, m.CrateName())
	if err != nil {
		return "", err
	}
	logger.Debug("Found rustdoc JSON", "path", path)
	return path, nil
}

// Args returns the cargo arguments that emit rustdoc JSON for the manifest.
func Args(manifestPath, targetDir string) []string {
	args := []string{"+nightly", "rustdoc", "--all-features", "--manifest-path", manifestPath}
	if targetDir != "" {
		args = append(args, "--target-dir", targetDir)
	}
	return append(args, "--", "-Z", "unstable-options", "--output-format", "json")
}

// FindArtifact returns the first <crate>.json inside a doc directory below
// targetDir, in lexical path order.
func FindArtifact(targetDir, crateName string) (string, error) {
	want := crateName + ".json"
	matches, err := doublestar.Glob(os.DirFS(targetDir), "**/doc/"+want, doublestar.WithFilesOnly())
	if err != nil || len(matches) == 0 {
		return "", errors.Newf(errors.ArtifactNotFound, err, "%s not found in %s", want, targetDir).
			WithDetails(map[string]interface{}{"targetDir": targetDir, "crate": crateName})
	}

	sort.Strings(matches)
	return filepath.Join(targetDir, filepath.FromSlash(matches[0])), nil
}

func resolveTargetDir(m *manifest.Manifest, override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(TargetDirEnv); env != "" {
		return env
	}
	return filepath.Join(m.Dir(), "target")
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
