package main

import (
	"github.com/spf13/cobra"

	"pubcrates/internal/manifest"
	"pubcrates/internal/storage"
)

var (
	historyLimit int
	historyAll   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `List the runs stored in the history database, newest first.

Runs are recorded with --record or history.enabled in .pubcrates/config.json.
Only runs of the crate in the current manifest are listed unless --all is given.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list (0 lists all)")
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "List runs of every crate")
	rootCmd.AddCommand(historyCmd)
}

// HistoryResponse is the output of the history command.
type HistoryResponse struct {
	Crate string        `json:"crate,omitempty" yaml:"crate,omitempty"`
	Runs  []storage.Run `json:"runs" yaml:"runs"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	s := current
	ctx := newContext()

	crate := ""
	if !historyAll {
		crate = s.currentCrate()
	}

	runs, err := s.runs()
	if err != nil {
		return err
	}
	list, err := runs.ListRuns(ctx, crate, historyLimit)
	if err != nil {
		return err
	}
	return s.emit(cmd.OutOrStdout(), &HistoryResponse{Crate: crate, Runs: list})
}

// currentCrate returns the normalised crate name of the manifest, or "" when
// there is no readable manifest.
func (s *session) currentCrate() string {
	m, err := manifest.Load(manifestPathFlag)
	if err != nil {
		s.logger.Debug("No manifest, not filtering by crate", "error", err)
		return ""
	}
	return m.CrateName()
}
