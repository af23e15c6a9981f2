package main

import (
	"github.com/spf13/cobra"

	"pubcrates/internal/check"
	"pubcrates/internal/manifest"
	"pubcrates/internal/paths"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the public API crates with the manifest allow-list",
	Long: `Compare the external crates of the public API with the allow-list in
Cargo.toml:

  [package.metadata.cargo-public-api-crates]
  allowed = ["serde"]

A missing table is an empty allow-list. The command exits with status 1 when
a crate in the public API is not allowed or an allowed crate is unused.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// CheckResponse is the output of the check command.
type CheckResponse struct {
	Crate      string   `json:"crate" yaml:"crate"`
	OK         bool     `json:"ok" yaml:"ok"`
	NotAllowed []string `json:"notAllowed,omitempty" yaml:"notAllowed,omitempty"`
	Unused     []string `json:"unused,omitempty" yaml:"unused,omitempty"`
	// Suggestion is the allow-list table matching the current public API.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	Result check.Result `json:"-" yaml:"-"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	s := current
	ctx := newContext()

	m, err := manifest.Load(manifestPathFlag)
	if err != nil {
		return err
	}
	if !m.HasAllowList() {
		s.logger.Info("No allow-list in manifest, treating it as empty", "manifest", paths.DisplayPath(m.Path, s.root))
	}

	report, artifact, err := s.buildReport(ctx)
	if err != nil {
		return err
	}
	if err := s.record(ctx, report, artifact); err != nil {
		return err
	}

	resp, err := newCheckResponse(m, report.ComponentNames())
	if err != nil {
		return err
	}
	if err := s.emit(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	if !resp.OK {
		return &exitError{code: 1}
	}
	return nil
}

func newCheckResponse(m *manifest.Manifest, inAPI []string) (*CheckResponse, error) {
	result := check.Compare(m.Allowed(), inAPI)
	resp := &CheckResponse{
		Crate:      m.CrateName(),
		OK:         result.OK(),
		NotAllowed: result.NotAllowed,
		Unused:     result.Unused,
		Result:     result,
	}
	if !resp.OK {
		snippet, err := manifest.AllowListSnippet(inAPI)
		if err != nil {
			return nil, err
		}
		resp.Suggestion = snippet
	}
	return resp, nil
}
