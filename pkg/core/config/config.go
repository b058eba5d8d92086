package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/ember/foundation/core/error"
)

// Output formats accepted by [output].format
const (
	FormatSexpr = "sexpr"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTree  = "tree"
)

// Config holds the ember configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// GeneralConfig holds general settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ParserConfig holds parser limits. A negative value disables the
// respective check.
type ParserConfig struct {
	MaxInputLength int `toml:"max_input_length" yaml:"max_input_length"`
	MaxDepth       int `toml:"max_depth" yaml:"max_depth"`
}

// OutputConfig holds the default output format of the CLI
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
}

// CacheConfig holds the parse result cache settings
type CacheConfig struct {
	Enabled    bool   `toml:"enabled" yaml:"enabled"`
	Path       string `toml:"path" yaml:"path"`
	MaxEntries int    `toml:"max_entries" yaml:"max_entries"`
}

// ServerConfig holds the gRPC parse service settings
type ServerConfig struct {
	Host              string   `toml:"host" yaml:"host"`
	Port              int      `toml:"port" yaml:"port"`
	EnableReflection  bool     `toml:"enable_reflection" yaml:"enable_reflection"`
	KeepaliveInterval Duration `toml:"keepalive_interval" yaml:"keepalive_interval"`
	KeepaliveTimeout  Duration `toml:"keepalive_timeout" yaml:"keepalive_timeout"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %s", node.Tag)
	}
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file. The decoder is chosen
// by the file extension; anything other than .yaml or .yml is read as TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.Newf("config file not found: %s", path).
				WithCode(mdwerror.CodeConfigError).
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.applyEnvOverrides()

	return &cfg, nil
}

// LoadFromEnv loads configuration from the EMBER_CONFIG environment variable
// or the first default location that exists. Without any file the defaults
// are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("EMBER_CONFIG")
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	return Load(path)
}

// DefaultPaths lists the config locations searched by LoadFromEnv
func DefaultPaths() []string {
	return []string{
		"./ember.toml",
		"./ember.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/ember/config.toml"),
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "ember"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Parser
	if c.Parser.MaxInputLength == 0 {
		c.Parser.MaxInputLength = 1 << 20
	}
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = 1000
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = FormatSexpr
	}

	// Cache
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(os.Getenv("HOME"), ".cache/ember/ast.db")
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 1000
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9170
	}
	if c.Server.KeepaliveInterval.Duration == 0 {
		c.Server.KeepaliveInterval.Duration = 30 * time.Second
	}
	if c.Server.KeepaliveTimeout.Duration == 0 {
		c.Server.KeepaliveTimeout.Duration = 10 * time.Second
	}
}

// expandEnvVars expands environment variables in path fields
func (c *Config) expandEnvVars() {
	c.Cache.Path = os.ExpandEnv(c.Cache.Path)
}

// applyEnvOverrides lets EMBER_* variables win over file values
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EMBER_LOG_LEVEL"); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv("EMBER_LOG_FORMAT"); v != "" {
		c.General.LogFormat = v
	}
	if v := os.Getenv("EMBER_CACHE_PATH"); v != "" {
		c.Cache.Path = os.ExpandEnv(v)
	}
}

// Validate checks the configuration for values no component can work with
func (c *Config) Validate() error {
	var problems []string

	switch c.Output.Format {
	case FormatSexpr, FormatJSON, FormatYAML, FormatTree:
	default:
		problems = append(problems, fmt.Sprintf("unknown output format %q", c.Output.Format))
	}
	if c.Cache.MaxEntries < 0 {
		problems = append(problems, "cache.max_entries must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port %d", c.Server.Port))
	}
	if c.Server.KeepaliveInterval.Duration < 0 || c.Server.KeepaliveTimeout.Duration < 0 {
		problems = append(problems, "keepalive durations must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return mdwerror.New("invalid configuration: " + strings.Join(problems, "; ")).
		WithCode(mdwerror.CodeInvalidConfig).
		WithDetail("problems", problems)
}

// Address returns the host:port the parse service listens on
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
