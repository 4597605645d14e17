package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
)

// Example returns the configuration Init writes.
func Example() *Config {
	cfg := Default()
	cfg.Blog.Title = "My fsblog"
	cfg.Blog.BaseURI = ""
	return cfg
}

// Init writes an example configuration to path. An existing file is only
// replaced when force is set. The file is written atomically.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
