package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"pubcrates/internal/analyze"
	"pubcrates/internal/builddocs"
	"pubcrates/internal/config"
	"pubcrates/internal/output"
	"pubcrates/internal/paths"
	"pubcrates/internal/rustdoc"
	"pubcrates/internal/slogutil"
	"pubcrates/internal/storage"
	"pubcrates/internal/version"
)

var (
	manifestPathFlag string
	skipBuildFlag    bool
	docJSONFlag      string
	targetDirFlag    string
	verboseFlag      int
	quietFlag        bool
)

// viperFlags maps persistent flags to the config keys they override.
var viperFlags = map[string]string{
	"include-std": "includeStd",
	"format":      "format",
	"workers":     "analysis.workers",
	"record":      "history.enabled",
}

var rootCmd = &cobra.Command{
	Use:   "pubcrates",
	Short: "List the external crates exposed by a crate's public API",
	Long: `pubcrates reads the rustdoc JSON of a crate and reports every external
crate whose items appear in its public API, together with the items and the
places that reference them.

Examples:
  pubcrates                              # build docs and print the report
  pubcrates --skip-build --format json   # reuse target/doc/<crate>.json
  pubcrates --doc-json foo.json.zst      # analyse an existing artifact
  pubcrates check                        # compare against the allow-list
  pubcrates config show --diff           # settings that differ from the defaults`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runReport,
}

func init() {
	// Assigned here rather than in the literal: startSession refers to rootCmd.
	rootCmd.PersistentPreRunE = startSession
	rootCmd.SetVersionTemplate("pubcrates version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.Bool("include-std", false, "Include std, alloc and core in the report")
	flags.String("format", "human", "Output format: human, json or yaml")
	flags.Int("workers", 1, "Goroutines used to analyse items")
	flags.Bool("record", false, "Record the run in the history database")
	flags.StringVar(&manifestPathFlag, "manifest-path", "", "Path to Cargo.toml (default: ./Cargo.toml)")
	flags.BoolVar(&skipBuildFlag, "skip-build", false, "Use the rustdoc JSON of an earlier build")
	flags.StringVar(&docJSONFlag, "doc-json", "", "Read this rustdoc JSON artifact instead of building one")
	flags.StringVar(&targetDirFlag, "target-dir", "", "Cargo target directory")
	flags.CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Disable logging")
}

func runReport(cmd *cobra.Command, args []string) error {
	s := current
	ctx := newContext()

	report, artifact, err := s.buildReport(ctx)
	if err != nil {
		return err
	}
	if err := s.record(ctx, report, artifact); err != nil {
		return err
	}
	return s.emit(cmd.OutOrStdout(), report)
}

// session is the state shared by every command of one process.
type session struct {
	root    string
	cfg     *config.Config
	logger  *slog.Logger
	logs    *slogutil.LoggerFactory
	history *storage.DB
}

var current *session

func startSession(cmd *cobra.Command, args []string) error {
	root, err := getRepoRoot()
	if err != nil {
		return err
	}

	v, _, err := config.Open(root)
	if err != nil {
		return err
	}
	for flag, key := range viperFlags {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			return err
		}
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	return newSession(cmd, root, cfg)
}

// startBareSession starts a session on the default configuration. The config
// and init commands use it so they keep working when the file is invalid.
func startBareSession(cmd *cobra.Command, args []string) error {
	root, err := getRepoRoot()
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if format := rootCmd.PersistentFlags().Lookup("format"); format.Changed {
		cfg.Format = format.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return newSession(cmd, root, cfg)
}

func newSession(cmd *cobra.Command, root string, cfg *config.Config) error {
	logFile := cfg.Logging.File
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(root, logFile)
	}
	logs := slogutil.NewLoggerFactory(slogutil.Options{
		Stderr:     cmd.ErrOrStderr(),
		Verbosity:  verboseFlag,
		Quiet:      quietFlag,
		Level:      cfg.Logging.Level,
		File:       logFile,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	logger, err := logs.Logger()
	if err != nil {
		return err
	}

	current = &session{root: root, cfg: cfg, logger: logger, logs: logs}
	logger.Debug("Configuration loaded", "format", cfg.Format, "workers", cfg.Analysis.Workers,
		"includeStd", cfg.IncludeStd, "history", cfg.History.Enabled)
	return nil
}

// closeSession releases the history database and log files.
func closeSession() {
	if current == nil {
		return
	}
	if current.history != nil {
		if err := current.history.Close(); err != nil {
			current.logger.Warn("Failed to close history database", "error", err)
		}
	}
	_ = current.logs.Close()
	current = nil
}

// artifactLocation returns --doc-json, or the artifact produced by cargo.
func (s *session) artifactLocation(ctx context.Context) (string, error) {
	if docJSONFlag != "" {
		return docJSONFlag, nil
	}
	builder := builddocs.NewBuilder(s.logger)
	return builder.Build(ctx, builddocs.Options{
		ManifestPath: manifestPathFlag,
		SkipBuild:    skipBuildFlag,
		TargetDir:    targetDirFlag,
	})
}

// buildReport loads the crate's rustdoc JSON and analyses it.
func (s *session) buildReport(ctx context.Context) (*output.Report, *rustdoc.Artifact, error) {
	location, err := s.artifactLocation(ctx)
	if err != nil {
		return nil, nil, err
	}

	artifact, err := rustdoc.Load(ctx, location)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("Loaded rustdoc JSON", "location", paths.DisplayPath(artifact.Location, s.root), "bytes", artifact.Size,
		"formatVersion", artifact.Crate.FormatVersion)

	result, err := analyze.Run(ctx, artifact.Crate, analyze.Options{
		IncludeStd: s.cfg.IncludeStd,
		Workers:    s.cfg.Analysis.Workers,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	report, err := output.BuildReport(artifact.Crate, result)
	if err != nil {
		return nil, nil, err
	}
	report.IncludeStd = s.cfg.IncludeStd
	return report, artifact, nil
}

// record stores report when history is enabled.
func (s *session) record(ctx context.Context, report *output.Report, artifact *rustdoc.Artifact) error {
	if !s.cfg.History.Enabled {
		return nil
	}
	runs, err := s.runs()
	if err != nil {
		return err
	}
	run, err := runs.RecordRun(ctx, report, artifact.Fingerprint)
	if err != nil {
		return err
	}
	s.logger.Info("Recorded run", "id", run.ID, "crate", run.Crate, "items", run.Items)
	return nil
}

// runs opens the history database on first use.
func (s *session) runs() (*storage.RunRepository, error) {
	if s.history == nil {
		path := paths.ResolveHistoryPath(s.root, s.cfg.History.Path)
		db, err := storage.Open(path, s.logger)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Opened history database", "path", paths.DisplayPath(path, s.root))
		s.history = db
	}
	return storage.NewRunRepository(s.history), nil
}

// emit writes resp in the configured format.
func (s *session) emit(w io.Writer, resp interface{}) error {
	text, err := FormatResponse(resp, OutputFormat(s.cfg.Format), humanOptions{
		Indent:    s.cfg.Output.Indent,
		MaxUsages: s.cfg.Output.MaxUsages,
	})
	if err != nil {
		return err
	}
	return writeText(w, text)
}

func writeText(w io.Writer, text string) error {
	if text == "" {
		return nil
	}
	if text[len(text)-1] != '\n' {
		text += "\n"
	}
	_, err := fmt.Fprint(w, text)
	return err
}
