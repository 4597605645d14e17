// Package transforms holds the content transform plugins applied to post and
// page bodies before they reach the templates.
package transforms

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/fsblog/internal/plugin"
)

// TransformPlugin rewrites a post or page body for an output format.
// Transforms must be pure: the same input always yields the same output.
type TransformPlugin interface {
	plugin.Plugin

	// Transform returns the rewritten content. Formats the transform does not
	// handle come back unchanged.
	Transform(format, content string) (string, error)
}

// TransformFunc is the signature of a plain transform function.
type TransformFunc func(format, content string) (string, error)

type funcTransform struct {
	metadata plugin.PluginMetadata
	fn       TransformFunc
}

// Func adapts fn into a TransformPlugin named name.
func Func(name string, fn TransformFunc) TransformPlugin {
	return &funcTransform{
		metadata: plugin.PluginMetadata{
			Name:    name,
			Version: "v0.0.0",
			Type:    plugin.PluginTypeTransform,
		},
		fn: fn,
	}
}

func (f *funcTransform) Metadata() plugin.PluginMetadata { return f.metadata }

func (f *funcTransform) Transform(format, content string) (string, error) {
	return f.fn(format, content)
}

// Registry manages transform plugins by name on top of the generic plugin
// registry.
type Registry struct {
	plugins *plugin.Registry
	byName  map[string]TransformPlugin
}

// NewRegistry creates an empty transform registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: plugin.NewRegistry(),
		byName:  make(map[string]TransformPlugin),
	}
}

// Register adds a transform plugin to the registry.
func (r *Registry) Register(transform TransformPlugin) error {
	if transform == nil {
		return fmt.Errorf("cannot register nil transform")
	}

	metadata := transform.Metadata()
	if metadata.Type != plugin.PluginTypeTransform {
		return fmt.Errorf("plugin %s has type %s, expected %s", metadata.Name, metadata.Type, plugin.PluginTypeTransform)
	}
	if err := r.plugins.Register(transform); err != nil {
		return err
	}
	r.byName[metadata.Name] = transform
	return nil
}

// Has reports whether a transform is registered under name.
func (r *Registry) Has(name string) bool {
	return r.plugins.Has(name)
}

// List returns the registered transforms sorted by name.
func (r *Registry) List() []TransformPlugin {
	found := r.plugins.ListByType(plugin.PluginTypeTransform)
	out := make([]TransformPlugin, 0, len(found))
	for _, p := range found {
		out = append(out, r.byName[p.Metadata().Name])
	}
	return out
}

// Names returns the registered transform names sorted.
func (r *Registry) Names() []string {
	list := r.List()
	names := make([]string, 0, len(list))
	for _, t := range list {
		names = append(names, t.Metadata().Name)
	}
	return names
}

// Pipeline resolves names, in order, into a pipeline. Unknown names are an
// error.
func (r *Registry) Pipeline(names ...string) (*Pipeline, error) {
	steps := make([]TransformPlugin, 0, len(names))
	for _, name := range names {
		t, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown transform plugin %q (available: %s)", name, strings.Join(r.Names(), ", "))
		}
		steps = append(steps, t)
	}
	return NewPipeline(steps...), nil
}
