package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/ember/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.General.Name != "ember" {
		t.Errorf("General.Name = %v, want ember", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.Parser.MaxInputLength != 1<<20 {
		t.Errorf("Parser.MaxInputLength = %v, want %v", cfg.Parser.MaxInputLength, 1<<20)
	}
	if cfg.Parser.MaxDepth != 1000 {
		t.Errorf("Parser.MaxDepth = %v, want 1000", cfg.Parser.MaxDepth)
	}
	if cfg.Output.Format != FormatSexpr {
		t.Errorf("Output.Format = %v, want sexpr", cfg.Output.Format)
	}
	if cfg.Cache.MaxEntries != 1000 {
		t.Errorf("Cache.MaxEntries = %v, want 1000", cfg.Cache.MaxEntries)
	}
	if cfg.Server.Port != 9170 {
		t.Errorf("Server.Port = %v, want 9170", cfg.Server.Port)
	}
	if cfg.Server.KeepaliveInterval.Duration != 30*time.Second {
		t.Errorf("Server.KeepaliveInterval = %v, want 30s", cfg.Server.KeepaliveInterval)
	}
}

func TestConfig_applyDefaultsKeepsValues(t *testing.T) {
	cfg := &Config{
		General: GeneralConfig{Name: "custom"},
		Parser:  ParserConfig{MaxInputLength: -1},
		Server:  ServerConfig{Port: 8000},
	}
	cfg.applyDefaults()

	if cfg.General.Name != "custom" {
		t.Errorf("General.Name = %v, want custom", cfg.General.Name)
	}
	if cfg.Parser.MaxInputLength != -1 {
		t.Errorf("Parser.MaxInputLength = %v, want -1", cfg.Parser.MaxInputLength)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %v, want 8000", cfg.Server.Port)
	}
}

func TestLoad_TOML(t *testing.T) {
	t.Setenv("EMBER_TEST_DIR", "/var/lib/ember")
	path := filepath.Join(t.TempDir(), "ember.toml")
	content := `
[general]
name = "test-ember"
log_level = "debug"

[parser]
max_input_length = 4096
max_depth = 64

[output]
format = "json"

[cache]
enabled = true
path = "${EMBER_TEST_DIR}/ast.db"
max_entries = 50

[server]
port = 9999
enable_reflection = true
keepalive_interval = "1m"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "test-ember" {
		t.Errorf("General.Name = %v, want test-ember", cfg.General.Name)
	}
	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.Parser.MaxInputLength != 4096 {
		t.Errorf("Parser.MaxInputLength = %v, want 4096", cfg.Parser.MaxInputLength)
	}
	if cfg.Parser.MaxDepth != 64 {
		t.Errorf("Parser.MaxDepth = %v, want 64", cfg.Parser.MaxDepth)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("Output.Format = %v, want json", cfg.Output.Format)
	}
	if !cfg.Cache.Enabled || cfg.Cache.MaxEntries != 50 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Path != "/var/lib/ember/ast.db" {
		t.Errorf("Cache.Path = %v, want expanded path", cfg.Cache.Path)
	}
	if cfg.Server.KeepaliveInterval.Duration != time.Minute {
		t.Errorf("Server.KeepaliveInterval = %v, want 1m", cfg.Server.KeepaliveInterval)
	}
	// default survives
	if cfg.Server.KeepaliveTimeout.Duration != 10*time.Second {
		t.Errorf("Server.KeepaliveTimeout = %v, want 10s", cfg.Server.KeepaliveTimeout)
	}
	if got := cfg.Address(); got != "localhost:9999" {
		t.Errorf("Address() = %v, want localhost:9999", got)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.yaml")
	content := `
general:
  name: yaml-ember
output:
  format: tree
server:
  host: 0.0.0.0
  keepalive_timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "yaml-ember" {
		t.Errorf("General.Name = %v, want yaml-ember", cfg.General.Name)
	}
	if cfg.Output.Format != FormatTree {
		t.Errorf("Output.Format = %v, want tree", cfg.Output.Format)
	}
	if cfg.Server.KeepaliveTimeout.Duration != 5*time.Second {
		t.Errorf("Server.KeepaliveTimeout = %v, want 5s", cfg.Server.KeepaliveTimeout)
	}
	if got := cfg.Address(); got != "0.0.0.0:9170" {
		t.Errorf("Address() = %v, want 0.0.0.0:9170", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[general\nname = "), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	badDuration := filepath.Join(dir, "duration.yaml")
	if err := os.WriteFile(badDuration, []byte("server:\n  keepalive_interval: soon\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.toml")},
		{"broken toml", broken},
		{"bad duration", badDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !mdwerror.HasCode(err, mdwerror.CodeConfigError) {
				t.Errorf("error code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeConfigError)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.toml")
	content := "[general]\nlog_level = \"debug\"\nlog_format = \"json\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("EMBER_LOG_LEVEL", "error")
	t.Setenv("EMBER_CACHE_PATH", "/tmp/ember-cache.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.General.LogLevel != "error" {
		t.Errorf("General.LogLevel = %v, want error", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "json" {
		t.Errorf("General.LogFormat = %v, want json", cfg.General.LogFormat)
	}
	if cfg.Cache.Path != "/tmp/ember-cache.db" {
		t.Errorf("Cache.Path = %v, want /tmp/ember-cache.db", cfg.Cache.Path)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		if err := os.WriteFile(path, []byte("[general]\nname = \"from-env\"\n"), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv("EMBER_CONFIG", path)

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if cfg.General.Name != "from-env" {
			t.Errorf("General.Name = %v, want from-env", cfg.General.Name)
		}
	})

	t.Run("defaults without file", func(t *testing.T) {
		dir := t.TempDir()
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		defer os.Chdir(wd)
		t.Setenv("EMBER_CONFIG", "")
		t.Setenv("HOME", dir)

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if cfg.General.Name != "ember" {
			t.Errorf("General.Name = %v, want ember", cfg.General.Name)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "unknown output format"},
		{"negative entries", func(c *Config) { c.Cache.MaxEntries = -5 }, "max_entries"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, "invalid server port"},
		{"negative keepalive", func(c *Config) { c.Server.KeepaliveTimeout.Duration = -time.Second }, "keepalive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeInvalidConfig)
			}
		})
	}
}
