package transforms

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/fsblog/internal/plugin"
)

// MarkdownName is the configuration name of the Markdown transform.
const MarkdownName = "markdown"

// Markdown converts Markdown bodies to HTML. Inline HTML is passed through.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates the Markdown transform.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Metadata returns the plugin metadata for the Markdown transform.
func (m *Markdown) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        MarkdownName,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeTransform,
		Description: "Renders Markdown bodies to HTML",
		Formats:     []string{"html", "atom"},
	}
}

// Transform implements TransformPlugin.
func (m *Markdown) Transform(format, content string) (string, error) {
	if !m.Metadata().AppliesTo(format) {
		return content, nil
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
