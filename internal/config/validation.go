package config

import (
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/plugin/transforms"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateBlog,
		c.validatePlugins,
		c.validateLogging,
		c.validateServer,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateBlog() error {
	b := c.Blog
	if strings.TrimSpace(b.DataDirectory) == "" {
		return invalid("blog.data_directory", "must not be empty")
	}
	for field, ext := range map[string]string{
		"blog.post_extension": b.PostExtension,
		"blog.page_extension": b.PageExtension,
	} {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid(field, fmt.Sprintf("%q must start with a dot", ext))
		}
		if strings.Contains(ext[1:], ".") || strings.ContainsAny(ext, "/\\") {
			return invalid(field, fmt.Sprintf("%q must be a single extension", ext))
		}
	}
	if b.PostExtension == b.PageExtension {
		return invalid("blog.page_extension", "must differ from blog.post_extension")
	}
	if b.PostsPerPage < 1 {
		return invalid("blog.posts_per_page", "must be at least 1")
	}
	return nil
}

func (c *Config) validatePlugins() error {
	builtins := transforms.Builtins()
	for _, name := range c.Plugins {
		if !builtins.Has(name) {
			return invalid("plugins", fmt.Sprintf("unknown plugin %q (available: %s)", name, strings.Join(builtins.Names(), ", ")))
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if err := logLevelNormalizer.Validate(string(c.Logging.Level)); err != nil {
		return invalid("logging.level", err.Error())
	}
	if err := logFormatNormalizer.Validate(string(c.Logging.Format)); err != nil {
		return invalid("logging.format", err.Error())
	}
	return nil
}

func (c *Config) validateServer() error {
	if !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return invalid("server.metrics_path", "must start with /")
	}
	return nil
}

func invalid(field, reason string) error {
	return ferrors.ValidationError(fmt.Sprintf("invalid configuration: %s %s", field, reason)).
		WithContext("field", field).
		Build()
}
