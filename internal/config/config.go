// Package config loads and validates the fsblog configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "fsblog.yaml"

// Config is the complete, immutable-after-load configuration.
type Config struct {
	Blog    BlogConfig    `yaml:"blog"`
	Plugins []string      `yaml:"plugins"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// BlogConfig describes the content tree and how it is published.
type BlogConfig struct {
	Title string `yaml:"title"`
	// BaseURI prefixes every link. Empty derives it per request.
	BaseURI            string `yaml:"base_uri"`
	DataDirectory      string `yaml:"data_directory"`
	TemplatesDirectory string `yaml:"templates_directory,omitempty"`
	PostExtension      string `yaml:"post_extension"`
	PageExtension      string `yaml:"page_extension"`
	PostsPerPage       int    `yaml:"posts_per_page"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ServerConfig configures the long-running HTTP mode.
type ServerConfig struct {
	Address        string `yaml:"address"`
	MetricsPath    string `yaml:"metrics_path"`
	WatchTemplates bool   `yaml:"watch_templates"`
}

// Load reads, expands, defaults and validates the configuration at path.
// Variables from .env files are loaded first and ${VAR} references in the
// file are expanded from the environment.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}
