package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds server and shell settings.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Empty means facts are kept in memory only.
	DataFile string `yaml:"data_file"`

	LogLevel    string `yaml:"log_level"` // debug, info, warn, error
	HistoryFile string `yaml:"history_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:        "0.0.0.0",
		Port:        9000,
		DataFile:    "",
		LogLevel:    "info",
		HistoryFile: filepath.Join(os.TempDir(), ".treelog-history"),
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "reading config")
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parsing config")
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "writing config")
}

func (c *Config) applyEnvOverrides() error {
	if host := os.Getenv("TREELOG_HOST"); host != "" {
		c.Host = host
	}
	if port := os.Getenv("TREELOG_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return errors.Wrapf(err, "TREELOG_PORT=%q", port)
		}
		c.Port = p
	}
	if dataFile, ok := os.LookupEnv("TREELOG_DATA_FILE"); ok {
		c.DataFile = dataFile
	}
	if level := os.Getenv("TREELOG_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	return nil
}

// Validate checks the settings a server needs.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("port out of range: %d", c.Port)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log level: %s", c.LogLevel)
	}
	return nil
}
