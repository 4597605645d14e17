package transforms

import (
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/fsblog/internal/plugin"
)

// AddParagraphsName is the configuration name of the paragraph transform.
const AddParagraphsName = "add_paragraphs"

// AddParagraphs wraps every non-blank line of plain text in a <p> element.
// Bodies that already contain a paragraph are left alone.
type AddParagraphs struct{}

// NewAddParagraphs creates the paragraph transform.
func NewAddParagraphs() *AddParagraphs { return &AddParagraphs{} }

// Metadata returns the plugin metadata for the paragraph transform.
func (p *AddParagraphs) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        AddParagraphsName,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeTransform,
		Description: "Wraps plain-text lines in HTML paragraph tags",
		Formats:     []string{"html", "atom"},
	}
}

// Transform implements TransformPlugin.
func (p *AddParagraphs) Transform(format, content string) (string, error) {
	if !p.Metadata().AppliesTo(format) {
		return content, nil
	}
	has, err := hasParagraph(content)
	if err != nil {
		return "", err
	}
	if has {
		return content, nil
	}

	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(line)
		b.WriteString("</p>\n")
	}
	return b.String(), nil
}

// hasParagraph reports whether content holds a <p> element.
func hasParagraph(content string) (bool, error) {
	if !strings.Contains(strings.ToLower(content), "<p") {
		return false, nil
	}
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return false, err
	}

	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "p" {
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found, nil
}
