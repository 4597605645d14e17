// Package plugin describes named, versioned extensions of the blog renderer
// and keeps a registry of them. Content transforms live in the transforms
// subpackage.
package plugin

import (
	"fmt"
)

// Plugin is anything that can be registered by name and version.
type Plugin interface {
	// Metadata returns the plugin's identity.
	Metadata() PluginMetadata
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier used in configuration (e.g. "add_paragraphs").
	Name string

	// Version is the semantic version (e.g. "v1.0.0").
	Version string

	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string

	// Formats lists the output formats the plugin acts on. Empty means all.
	Formats []string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}

// AppliesTo reports whether the plugin acts on format.
func (m PluginMetadata) AppliesTo(format string) bool {
	if len(m.Formats) == 0 {
		return true
	}
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}
