package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/shadowtree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "shadowtree.json"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:9400"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "shadowtree"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "shadowtree"

	// DefaultRootTag is the default root tag of the served tree.
	DefaultRootTag = 1

	// DefaultArchiveQueue is the default archive queue length.
	DefaultArchiveQueue = 16
)

// Environment variables that override file settings.
const (
	EnvLogLevel      = "SHADOWTREE_LOG_LEVEL"
	EnvInspectorAddr = "SHADOWTREE_INSPECTOR_ADDR"
)

// Config represents the complete shadowtree.json configuration.
type Config struct {
	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Inspector contains inspector server configuration.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Archive contains snapshot archive configuration.
	Archive ArchiveConfig `json:"archive,omitempty"`

	// Tree contains settings of the served tree.
	Tree TreeConfig `json:"tree,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string `json:"level,omitempty"`

	// Format is text or json (default: text).
	Format string `json:"format,omitempty"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Enabled starts the inspector server.
	Enabled bool `json:"enabled,omitempty"`

	// Addr is the address to listen on.
	Addr string `json:"addr,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled installs the metrics collector.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is the metrics subsystem.
	Subsystem string `json:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName is the name of the tracer used for commit spans.
	TracerName string `json:"tracerName,omitempty"`
}

// ArchiveConfig contains snapshot archive settings. Snapshots are
// archived to Dir, to S3, or both; neither set disables archiving.
type ArchiveConfig struct {
	// Dir is the local directory to write snapshots to.
	Dir string `json:"dir,omitempty"`

	// Format is the snapshot encoding: json, yaml, or text (default: json).
	Format string `json:"format,omitempty"`

	// QueueSize is the number of generations that may wait to be archived.
	QueueSize int `json:"queueSize,omitempty"`

	// S3 contains S3 destination settings.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 destination settings.
type S3Config struct {
	// Bucket is the S3 bucket name. Empty disables S3 archiving.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix for snapshots.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket's AWS region.
	Region string `json:"region,omitempty"`
}

// TreeConfig contains settings of the served tree.
type TreeConfig struct {
	// RootTag identifies the root tree.
	RootTag int32 `json:"rootTag,omitempty"`

	// MountSignaling enables event emitters of committed nodes.
	MountSignaling bool `json:"mountSignaling,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Inspector: InspectorConfig{
			Enabled: true,
			Addr:    DefaultInspectorAddr,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Archive: ArchiveConfig{
			Format:    "json",
			QueueSize: DefaultArchiveQueue,
		},
		Tree: TreeConfig{
			RootTag:        DefaultRootTag,
			MountSignaling: true,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for shadowtree.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path. Environment
// overrides are applied after parsing.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	cfg.ApplyEnv()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Archive.Format == "" {
		c.Archive.Format = "json"
	}
	if c.Archive.QueueSize == 0 {
		c.Archive.QueueSize = DefaultArchiveQueue
	}
	if c.Tree.RootTag == 0 {
		c.Tree.RootTag = DefaultRootTag
	}
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvInspectorAddr); v != "" {
		c.Inspector.Addr = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("log.level must be one of debug, info, warn, error; got " + c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("log.format must be text or json; got " + c.Log.Format)
	}
	switch c.Archive.Format {
	case "json", "yaml", "text":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("archive.format must be json, yaml, or text; got " + c.Archive.Format)
	}
	if c.Archive.QueueSize < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("archive.queueSize must not be negative")
	}
	if c.Archive.S3.Bucket != "" && c.Archive.S3.Region == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("archive.s3.region is required when archive.s3.bucket is set")
	}
	if c.Tree.RootTag <= 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("tree.rootTag must be positive")
	}
	if c.Inspector.Enabled && c.Inspector.Addr == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("inspector.addr is required when the inspector is enabled")
	}
	return nil
}

// SlogLevel returns the configured log level, or info if it is invalid.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// NewLogger returns a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ArchiveDirPath returns the absolute archive directory, or "" when
// local archiving is disabled.
func (c *Config) ArchiveDirPath() string {
	if c.Archive.Dir == "" {
		return ""
	}
	if filepath.IsAbs(c.Archive.Dir) {
		return c.Archive.Dir
	}
	return filepath.Join(c.Dir(), c.Archive.Dir)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindConfigDir walks up directories to find the one containing
// shadowtree.json.
func FindConfigDir(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest shadowtree.json above the working
// directory. If there is none, it returns the defaults with environment
// overrides applied.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	dir, err := FindConfigDir(wd)
	if err != nil {
		cfg := New()
		cfg.ApplyEnv()
		return cfg, nil
	}

	return Load(dir)
}
