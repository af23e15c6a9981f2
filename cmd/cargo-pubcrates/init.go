package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pubcrates/internal/config"
	"pubcrates/internal/paths"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .pubcrates/config.json",
	Long: `Create the .pubcrates state directory in the current directory and
write the default configuration to it. An existing config is left alone
unless --force is given.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: startBareSession,
	RunE:              runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	s := current
	out := cmd.OutOrStdout()

	path := paths.GetConfigPath(s.root)
	display := paths.DisplayPath(path, s.root)
	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(out, "Already initialized: %s exists.\nUse --force to overwrite it.\n", display)
		return nil
	}

	if err := config.DefaultConfig().Save(s.root); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	s.logger.Info("Wrote default config", "path", display)
	fmt.Fprintf(out, "Wrote %s\n", display)
	return nil
}
