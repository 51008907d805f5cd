package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v3"

	"schemacheck/pkg/confkit"
	"schemacheck/pkg/runner"
	"schemacheck/pkg/schema"
)

const (
	serviceName = "schemacheck"

	defaultLogMode     = "console"
	defaultLogEncoding = "plain"
	defaultLogLevel    = "info"

	envLogLevel = "SCHEMACHECK_LOG_LEVEL"
	envCatalog  = "SCHEMACHECK_CATALOG"
)

// Config is the top-level schemacheck configuration.
type Config struct {
	Log     LogConfig    `yaml:"log"`
	Catalog string       `yaml:"catalog"`
	Runs    []runner.Run `yaml:"runs"`

	// dir is the directory of the config file; relative paths resolve here.
	dir string
}

// LogConfig selects the logx sink.
type LogConfig struct {
	Mode     string `yaml:"mode"`
	Encoding string `yaml:"encoding"`
	Level    string `yaml:"level"`
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schemacheck config: %w", err)
	}
	defer file.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve schemacheck config: %w", err)
	}
	return LoadConfigFromReader(file, filepath.Dir(abs))
}

// MustLoad reads the committed configuration and panics on failure.
func MustLoad() *Config {
	cfg, err := LoadConfig(confkit.MustProjectPath("etc/schemacheck.yaml"))
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config. dir anchors relative paths.
func LoadConfigFromReader(r io.Reader, dir string) (*Config, error) {
	confkit.LoadDotenvOnce()
	var raw struct {
		Log     LogConfig    `yaml:"log"`
		Catalog string       `yaml:"catalog"`
		Runs    []runner.Run `yaml:"runs"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read schemacheck config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal schemacheck config: %w", err)
	}

	cfg := &Config{
		Log:     raw.Log,
		Catalog: raw.Catalog,
		Runs:    raw.Runs,
		dir:     dir,
	}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	switch c.Log.Mode {
	case "console", "file", "volume":
	default:
		return fmt.Errorf("config: unsupported log.mode %q", c.Log.Mode)
	}
	switch c.Log.Encoding {
	case "plain", "json":
	default:
		return fmt.Errorf("config: unsupported log.encoding %q", c.Log.Encoding)
	}
	switch c.Log.Level {
	case "debug", "info", "error", "severe":
	default:
		return fmt.Errorf("config: unsupported log.level %q", c.Log.Level)
	}
	if len(c.Runs) == 0 {
		return errors.New("config: at least one run is required")
	}
	for i, run := range c.Runs {
		if err := run.Validate(); err != nil {
			return fmt.Errorf("config: runs[%d]: %w", i, err)
		}
	}
	return nil
}

// Dir is the directory relative paths are resolved against.
func (c *Config) Dir() string {
	return c.dir
}

// CatalogPath returns the resolved catalog path, or "" when none is set.
func (c *Config) CatalogPath() string {
	return confkit.Resolve(c.dir, c.Catalog)
}

// LoadCatalog loads the configured catalog, or returns nil when none is set.
func (c *Config) LoadCatalog() (*schema.Catalog, error) {
	path := c.CatalogPath()
	if path == "" {
		return nil, nil
	}
	return schema.LoadCatalog(path)
}

// SetUpLogging applies the log section to logx.
func (c *Config) SetUpLogging() error {
	return SetUpLogging(c.Log)
}

// SetUpLogging configures logx from lc, filling defaults for empty fields.
func SetUpLogging(lc LogConfig) error {
	lc.applyDefaults()
	return logx.SetUp(logx.LogConf{
		ServiceName: serviceName,
		Mode:        lc.Mode,
		Encoding:    lc.Encoding,
		Level:       lc.Level,
	})
}

func (c *Config) applyDefaults() {
	c.Log.applyDefaults()
	for i := range c.Runs {
		if strings.TrimSpace(c.Runs[i].Extension) == "" {
			c.Runs[i].Extension = "json"
		}
	}
}

func (lc *LogConfig) applyDefaults() {
	if strings.TrimSpace(lc.Mode) == "" {
		lc.Mode = defaultLogMode
	}
	if strings.TrimSpace(lc.Encoding) == "" {
		lc.Encoding = defaultLogEncoding
	}
	if strings.TrimSpace(lc.Level) == "" {
		lc.Level = defaultLogLevel
	}
}

func (c *Config) applyEnvOverrides() {
	c.Log.Level = expandAndOverride(c.Log.Level, envLogLevel)
	c.Catalog = expandAndOverride(c.Catalog, envCatalog)
	for i := range c.Runs {
		run := &c.Runs[i]
		run.SchemaDir = os.ExpandEnv(run.SchemaDir)
		run.SchemaFile = os.ExpandEnv(run.SchemaFile)
		run.TestDir = os.ExpandEnv(run.TestDir)
		run.BaseURI = os.ExpandEnv(run.BaseURI)
	}
}

func expandAndOverride(current, envKey string) string {
	current = os.ExpandEnv(current)
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal
	}
	return current
}
