package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"pubcrates/internal/config"
	"pubcrates/internal/paths"
)

var configShowDiff bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `Inspect the configuration read from .pubcrates/config.json and the
PUBCRATES_* environment variables. Command-line flags are not included.`,
	PersistentPreRunE: startBareSession,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration and where it came from",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List the supported environment variables",
	Args:  cobra.NoArgs,
	RunE:  runConfigEnv,
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowDiff, "diff", false, "Only show settings that differ from the defaults")
	configCmd.AddCommand(configShowCmd, configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the output of config show.
type ConfigShowResponse struct {
	ConfigPath   string                 `json:"configPath,omitempty" yaml:"configPath,omitempty"`
	UsedDefaults bool                   `json:"usedDefaults" yaml:"usedDefaults"`
	EnvOverrides []config.EnvOverride   `json:"envOverrides,omitempty" yaml:"envOverrides,omitempty"`
	Settings     map[string]interface{} `json:"settings" yaml:"settings"`

	defaults map[string]interface{}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	s := current

	result, err := config.LoadConfigWithDetails(s.root)
	if err != nil {
		return err
	}

	defaults := config.DefaultConfig().Settings()
	settings := result.Config.Settings()
	if configShowDiff {
		for key, value := range settings {
			if value == defaults[key] {
				delete(settings, key)
			}
		}
	}

	resp := &ConfigShowResponse{
		UsedDefaults: result.UsedDefaults,
		EnvOverrides: result.EnvOverrides,
		Settings:     settings,
		defaults:     defaults,
	}
	if result.ConfigPath != "" {
		resp.ConfigPath = paths.DisplayPath(result.ConfigPath, s.root)
	}
	return s.emit(cmd.OutOrStdout(), resp)
}

// EnvVariable is one supported environment variable.
type EnvVariable struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Set   bool   `json:"set" yaml:"set"`
}

// ConfigEnvResponse is the output of config env.
type ConfigEnvResponse struct {
	Variables []EnvVariable `json:"variables" yaml:"variables"`
}

func runConfigEnv(cmd *cobra.Command, args []string) error {
	resp := &ConfigEnvResponse{}
	for _, name := range config.GetSupportedEnvVars() {
		value, set := os.LookupEnv(name)
		resp.Variables = append(resp.Variables, EnvVariable{Name: name, Value: value, Set: set})
	}
	return current.emit(cmd.OutOrStdout(), resp)
}

func formatConfigShowHuman(resp *ConfigShowResponse) string {
	var b strings.Builder
	if resp.UsedDefaults {
		b.WriteString("Source: defaults (no config file)\n")
	} else {
		fmt.Fprintf(&b, "Source: %s\n", resp.ConfigPath)
	}

	if len(resp.EnvOverrides) > 0 {
		b.WriteString("\nEnvironment overrides:\n")
		for _, o := range resp.EnvOverrides {
			fmt.Fprintf(&b, "  %s=%s -> %s\n", o.Var, o.Value, o.Key)
		}
	}

	b.WriteString("\n")
	if len(resp.Settings) == 0 {
		b.WriteString("All settings are at their defaults.\n")
		return b.String()
	}

	keys := make([]string, 0, len(resp.Settings))
	width := 0
	for key := range resp.Settings {
		keys = append(keys, key)
		if len(key) > width {
			width = len(key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := resp.Settings[key]
		line := fmt.Sprintf("%-*s  %v", width, key, displayValue(value))
		if def, ok := resp.defaults[key]; ok && def != value {
			line += fmt.Sprintf("  (default: %v)", displayValue(def))
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return b.String()
}

func displayValue(v interface{}) interface{} {
	if s, ok := v.(string); ok && s == "" {
		return `""`
	}
	return v
}

func formatConfigEnvHuman(resp *ConfigEnvResponse) string {
	var b strings.Builder
	for _, v := range resp.Variables {
		if v.Set {
			fmt.Fprintf(&b, "%s=%s\n", v.Name, v.Value)
		} else {
			fmt.Fprintf(&b, "%s (unset)\n", v.Name)
		}
	}
	return b.String()
}
