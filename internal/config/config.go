package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"

	"pubcrates/internal/errors"
	"pubcrates/internal/paths"
	"pubcrates/internal/slogutil"
)

// CurrentVersion is the only supported config schema version.
const CurrentVersion = 1

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PUBCRATES"

// ConfigPathEnv points at a config file outside the state directory.
const ConfigPathEnv = EnvPrefix + "_CONFIG_PATH"

// Formats lists the accepted output formats.
var Formats = []string{"human", "json", "yaml"}

// Config represents the complete pubcrates configuration
type Config struct {
	Version    int    `json:"version" mapstructure:"version"`
	IncludeStd bool   `json:"includeStd" mapstructure:"includeStd"`
	Format     string `json:"format" mapstructure:"format"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Output   OutputConfig   `json:"output" mapstructure:"output"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
	History  HistoryConfig  `json:"history" mapstructure:"history"`
}

// AnalysisConfig controls the reference analyzer
type AnalysisConfig struct {
	Workers int `json:"workers" mapstructure:"workers"`
}

// OutputConfig controls the human report
type OutputConfig struct {
	Indent    int `json:"indent" mapstructure:"indent"`
	MaxUsages int `json:"maxUsages" mapstructure:"maxUsages"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" mapstructure:"level"`
	File       string `json:"file,omitempty" mapstructure:"file"`
	MaxSize    string `json:"maxSize,omitempty" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups,omitempty" mapstructure:"maxBackups"`
}

// HistoryConfig controls the run history store
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path,omitempty" mapstructure:"path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Format:  "human",
		Analysis: AnalysisConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Indent:    4,
			MaxUsages: 3,
		},
		Logging: LoggingConfig{
			MaxBackups: 3,
		},
	}
}

// EnvOverride records one environment variable that changed a key.
type EnvOverride struct {
	Var   string `json:"var" yaml:"var"`
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// envBindings maps config keys to their environment variables.
var envBindings = []struct {
	key string
	env string
}{
	{"includeStd", "PUBCRATES_INCLUDE_STD"},
	{"format", "PUBCRATES_FORMAT"},
	{"analysis.workers", "PUBCRATES_ANALYSIS_WORKERS"},
	{"output.indent", "PUBCRATES_OUTPUT_INDENT"},
	{"output.maxUsages", "PUBCRATES_OUTPUT_MAX_USAGES"},
	{"logging.level", "PUBCRATES_LOG_LEVEL"},
	{"logging.file", "PUBCRATES_LOG_FILE"},
	{"history.enabled", "PUBCRATES_HISTORY_ENABLED"},
	{"history.path", "PUBCRATES_HISTORY_PATH"},
}

// GetSupportedEnvVars returns every environment variable read by LoadConfigWithDetails.
func GetSupportedEnvVars() []string {
	vars := make([]string, 0, len(envBindings)+1)
	vars = append(vars, ConfigPathEnv)
	for _, b := range envBindings {
		vars = append(vars, b.env)
	}
	return vars
}

// LoadResult describes where a configuration came from.
type LoadResult struct {
	Config       *Config
	ConfigPath   string
	UsedDefaults bool
	EnvOverrides []EnvOverride
}

// LoadConfigWithDetails loads configuration with precedence env > file >
// defaults. PUBCRATES_CONFIG_PATH replaces the file location.
func LoadConfigWithDetails(root string) (*LoadResult, error) {
	v, configPath, err := Open(root)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{ConfigPath: configPath, UsedDefaults: configPath == ""}
	cfg, err := Decode(v)
	if err != nil {
		return nil, err
	}
	result.Config = cfg

	for _, b := range envBindings {
		if value, ok := os.LookupEnv(b.env); ok {
			result.EnvOverrides = append(result.EnvOverrides, EnvOverride{Var: b.env, Key: b.key, Value: value})
		}
	}
	return result, nil
}

// Open returns a viper instance with the config file of root read in. The
// returned path is empty when the default file does not exist. Callers may
// bind CLI flags on the result before Decode.
func Open(root string) (*viper.Viper, string, error) {
	v := NewViper()

	configPath := os.Getenv(ConfigPathEnv)
	explicit := configPath != ""
	if !explicit {
		configPath = paths.GetConfigPath(root)
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return v, "", nil
		}
		return nil, "", errors.Newf(errors.ConfigInvalid, err, "cannot read config %s", configPath)
	}
	return v, configPath, nil
}

// NewViper returns a viper instance carrying the defaults and environment
// bindings. Callers may bind CLI flags on top before decoding.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range DefaultConfig().Settings() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, b := range envBindings {
		_ = v.BindEnv(b.key, b.env)
	}
	return v
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Newf(errors.ConfigInvalid, err, "cannot decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Settings flattens c into its dotted config keys.
func (c *Config) Settings() map[string]interface{} {
	return map[string]interface{}{
		"version":            c.Version,
		"includeStd":         c.IncludeStd,
		"format":             c.Format,
		"analysis.workers":   c.Analysis.Workers,
		"output.indent":      c.Output.Indent,
		"output.maxUsages":   c.Output.MaxUsages,
		"logging.level":      c.Logging.Level,
		"logging.file":       c.Logging.File,
		"logging.maxSize":    c.Logging.MaxSize,
		"logging.maxBackups": c.Logging.MaxBackups,
		"history.enabled":    c.History.Enabled,
		"history.path":       c.History.Path,
	}
}

// Save writes the configuration to .pubcrates/config.json
func (c *Config) Save(root string) error {
	if _, err := paths.EnsureStateDir(root); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(paths.GetConfigPath(root), append(data, '\n'), 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return invalid("version", fmt.Sprintf("unsupported config version %d", c.Version))
	}
	if !ValidFormat(c.Format) {
		return invalid("format", fmt.Sprintf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", ")))
	}
	if c.Analysis.Workers < 1 {
		return invalid("analysis.workers", "must be positive")
	}
	if c.Output.Indent < 2 {
		return invalid("output.indent", "must be at least 2")
	}
	if c.Output.MaxUsages < 1 {
		return invalid("output.maxUsages", "must be positive")
	}
	if _, ok := slogutil.ParseLevel(c.Logging.Level); c.Logging.Level != "" && !ok {
		return invalid("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	if c.Logging.MaxSize != "" && slogutil.ParseSize(c.Logging.MaxSize) <= 0 {
		return invalid("logging.maxSize", fmt.Sprintf("cannot parse size %q", c.Logging.MaxSize))
	}
	return nil
}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func invalid(field, message string) error {
	return errors.New(errors.ConfigInvalid, "invalid configuration", &ConfigError{Field: field, Message: message}, nil).
		WithDetails(map[string]interface{}{"field": field})
}
