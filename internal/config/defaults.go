package config

import (
	"strings"

	"git.home.luguber.info/inful/fsblog/internal/plugin/transforms"
)

// Default values.
const (
	DefaultTitle          = "My blog"
	DefaultDataDirectory  = "./data"
	DefaultPostExtension  = ".blog"
	DefaultPageExtension  = ".page"
	DefaultPostsPerPage   = 4
	DefaultServerAddress  = ":8080"
	DefaultMetricsPath    = "/metrics"
	DefaultLogLevel       = LogLevelInfo
	DefaultLogFormat      = LogFormatText
	defaultPluginSentinel = "-"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// BlogDefaultApplier handles blog defaults.
type BlogDefaultApplier struct{}

func (BlogDefaultApplier) Domain() string { return "blog" }

func (BlogDefaultApplier) ApplyDefaults(cfg *Config) error {
	b := &cfg.Blog
	if b.Title == "" {
		b.Title = DefaultTitle
	}
	if b.DataDirectory == "" {
		b.DataDirectory = DefaultDataDirectory
	}
	if b.PostExtension == "" {
		b.PostExtension = DefaultPostExtension
	}
	if b.PageExtension == "" {
		b.PageExtension = DefaultPageExtension
	}
	if b.PostsPerPage == 0 {
		b.PostsPerPage = DefaultPostsPerPage
	}
	b.BaseURI = strings.TrimRight(b.BaseURI, "/")
	return nil
}

// PluginDefaultApplier enables add_paragraphs when no plugin list is given.
// A list holding only "-" disables every plugin.
type PluginDefaultApplier struct{}

func (PluginDefaultApplier) Domain() string { return "plugins" }

func (PluginDefaultApplier) ApplyDefaults(cfg *Config) error {
	switch {
	case cfg.Plugins == nil:
		cfg.Plugins = []string{transforms.AddParagraphsName}
	case len(cfg.Plugins) == 1 && cfg.Plugins[0] == defaultPluginSentinel:
		cfg.Plugins = []string{}
	}
	return nil
}

// LoggingDefaultApplier normalizes log level and format.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if strings.TrimSpace(string(cfg.Logging.Level)) == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if strings.TrimSpace(string(cfg.Logging.Format)) == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	return nil
}

// ServerDefaultApplier handles HTTP server defaults.
type ServerDefaultApplier struct{}

func (ServerDefaultApplier) Domain() string { return "server" }

func (ServerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultServerAddress
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = DefaultMetricsPath
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		BlogDefaultApplier{},
		PluginDefaultApplier{},
		LoggingDefaultApplier{},
		ServerDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
