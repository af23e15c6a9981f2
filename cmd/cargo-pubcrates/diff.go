package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pubcrates/internal/errors"
)

var diffExitCode bool

var diffCmd = &cobra.Command{
	Use:   "diff [RUN_A RUN_B]",
	Short: "Compare two recorded runs",
	Long: `Compare the public API of two recorded runs. Run IDs may be abbreviated
to any unique prefix.

Without arguments the two most recent runs of the current crate are compared.

Examples:
  pubcrates diff
  pubcrates diff 3f2a9c1e 77b0d4e2
  pubcrates diff --exit-code   # exit 1 when the public API changed`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("diff takes no run IDs or exactly two, got %d", len(args))
		}
		return nil
	},
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "Exit with status 1 when the runs differ")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	s := current
	ctx := newContext()

	runs, err := s.runs()
	if err != nil {
		return err
	}

	var from, to string
	if len(args) == 2 {
		from, to = args[0], args[1]
	} else {
		crate := s.currentCrate()
		recent, err := runs.ListRuns(ctx, crate, 2)
		if err != nil {
			return err
		}
		if len(recent) < 2 {
			return errors.Newf(errors.HistoryUnavailable, nil,
				"need two recorded runs to compare, found %d", len(recent)).
				WithDetails(map[string]interface{}{"crate": crate})
		}
		from, to = recent[1].ID, recent[0].ID
	}

	d, err := runs.Diff(ctx, from, to)
	if err != nil {
		return err
	}
	s.logger.Debug("Compared runs", "from", d.From.ID, "to", d.To.ID,
		"added", len(d.AddedItems), "removed", len(d.RemovedItems))

	if err := s.emit(cmd.OutOrStdout(), d); err != nil {
		return err
	}
	if diffExitCode && !d.Empty() {
		return &exitError{code: 1}
	}
	return nil
}
