package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/puml2sql/internal/generator"
)

// Config holds all application configuration.
type Config struct {
	Theme       string            `yaml:"theme"`
	Color       bool              `yaml:"color"`
	Output      OutputConfig      `yaml:"output"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Audit       AuditConfig       `yaml:"audit"`
	History     HistoryConfig     `yaml:"history"`
	Connections []SavedConnection `yaml:"connections"`
}

// OutputConfig holds where generated DDL is written.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// GeneratorConfig mirrors generator.Options in YAML form.
type GeneratorConfig struct {
	Resolution string `yaml:"resolution"` // "settled" or "legacy"
	StrictKeys bool   `yaml:"strict_keys"`
}

// AuditConfig controls the JSON Lines audit log of runs.
type AuditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// HistoryConfig controls the SQLite run history.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SavedConnection is a named MySQL target for applying generated DDL.
type SavedConnection struct {
	Name     string `yaml:"name"`
	DSN      string `yaml:"dsn,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme: "default",
		Output: OutputConfig{
			Path: "database.sql",
		},
		Generator: GeneratorConfig{
			Resolution: generator.Settled.String(),
		},
		Audit: AuditConfig{
			MaxSizeMB: 10,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the puml2sql configuration directory path, typically
// ~/.config/puml2sql/.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "puml2sql"), nil
}

// Load reads a Config from the YAML file at path. If the file does not exist,
// it returns DefaultConfig without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.GeneratorOptions(); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from ConfigDir()/config.yaml.
func LoadDefault() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, "config.yaml"))
}

// Save writes the Config to the YAML file at path, creating any necessary
// parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveDefault writes the Config to ConfigDir()/config.yaml.
func (c *Config) SaveDefault() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return c.Save(filepath.Join(dir, "config.yaml"))
}

// GeneratorOptions converts the generator section to generator.Options.
func (c *Config) GeneratorOptions() (generator.Options, error) {
	res, err := generator.ParseResolution(c.Generator.Resolution)
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{
		Resolution: res,
		StrictKeys: c.Generator.StrictKeys,
	}, nil
}

// Connection returns the saved connection called name.
func (c *Config) Connection(name string) (*SavedConnection, bool) {
	for i := range c.Connections {
		if strings.EqualFold(c.Connections[i].Name, name) {
			return &c.Connections[i], true
		}
	}
	return nil, false
}

// BuildDSN returns the connection string for sc. If DSN is set it is
// returned as-is; otherwise a mysql:// URL is built from the fields.
func (sc *SavedConnection) BuildDSN() string {
	if sc.DSN != "" {
		return sc.DSN
	}

	host := sc.Host
	if host == "" {
		host = "localhost"
	}
	u := &url.URL{
		Scheme: "mysql",
		Host:   host,
	}
	if sc.Port > 0 {
		u.Host = fmt.Sprintf("%s:%d", host, sc.Port)
	}
	if sc.User != "" {
		if sc.Password != "" {
			u.User = url.UserPassword(sc.User, sc.Password)
		} else {
			u.User = url.User(sc.User)
		}
	}
	if sc.Database != "" {
		u.Path = "/" + sc.Database
	}
	return u.String()
}

// DisplayString returns a credential-free description of the connection,
// formatted as "name (host:port/database)".
func (sc *SavedConnection) DisplayString() string {
	host := sc.Host
	if host == "" {
		host = "localhost"
	}

	location := host
	if sc.Port > 0 {
		location = fmt.Sprintf("%s:%d", host, sc.Port)
	}
	if sc.Database != "" {
		location += "/" + sc.Database
	}
	if sc.DSN != "" && sc.Host == "" {
		location = "dsn"
	}
	return fmt.Sprintf("%s (%s)", sc.Name, location)
}
