package transforms

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/fsblog/internal/plugin"
)

func TestAddParagraphs(t *testing.T) {
	p := NewAddParagraphs()

	tests := []struct {
		name    string
		format  string
		content string
		want    string
	}{
		{"wraps lines", "html", "one\n  two  \n\nthree", "<p>one</p>\n<p>two</p>\n<p>three</p>\n"},
		{"atom too", "atom", "line", "<p>line</p>\n"},
		{"existing paragraph", "html", "<p>already</p>\nmore", "<p>already</p>\nmore"},
		{"paragraph with attributes", "html", "<p class=\"x\">hi</p>", "<p class=\"x\">hi</p>"},
		{"pre is not a paragraph", "html", "<pre>x</pre>", "<p><pre>x</pre></p>\n"},
		{"other formats untouched", "txt", "one\ntwo", "one\ntwo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Transform(tc.format, tc.content)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMarkdown(t *testing.T) {
	m := NewMarkdown()

	got, err := m.Transform("html", "# Title\n\nSome *emphasis*.")
	require.NoError(t, err)
	assert.Contains(t, got, "<h1>Title</h1>")
	assert.Contains(t, got, "<em>emphasis</em>")

	raw, err := m.Transform("txt", "*x*")
	require.NoError(t, err)
	assert.Equal(t, "*x*", raw)
}

func TestPipelineAppliesInOrder(t *testing.T) {
	upper := Func("upper", func(_, c string) (string, error) { return strings.ToUpper(c), nil })
	suffix := Func("suffix", func(format, c string) (string, error) { return c + "-" + format, nil })

	got, err := NewPipeline(upper, suffix).Apply("html", "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC-html", got)

	got, err = NewPipeline(suffix, upper).Apply("html", "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC-HTML", got)

	var nilPipeline *Pipeline
	got, err = nilPipeline.Apply("html", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestPipelineErrors(t *testing.T) {
	cause := errors.New("bad input")
	failing := Func("failing", func(_, _ string) (string, error) { return "", cause })
	panicking := Func("panicking", func(_, _ string) (string, error) { panic("kaboom") })

	_, err := NewPipeline(failing).Apply("html", "x")
	var perr *plugin.PluginError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "failing", perr.PluginName)
	assert.ErrorIs(t, err, cause)

	_, err = NewPipeline(panicking).Apply("html", "x")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "panicking", perr.PluginName)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRegistry(t *testing.T) {
	r := Builtins()
	assert.Equal(t, []string{AddParagraphsName, MarkdownName}, r.Names())
	assert.True(t, r.Has(MarkdownName))
	assert.False(t, r.Has("shout"))

	p, err := r.Pipeline(MarkdownName, AddParagraphsName)
	require.NoError(t, err)
	assert.Equal(t, []string{MarkdownName, AddParagraphsName}, p.Names())

	_, err = r.Pipeline("smartypants")
	require.ErrorContains(t, err, "available: add_paragraphs, markdown")

	require.Error(t, r.Register(NewMarkdown()))
	require.NoError(t, r.Register(Func("shout", func(_, c string) (string, error) { return c + "!", nil })))
	assert.True(t, r.Has("shout"))

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "shout", list[2].Metadata().Name)
	assert.Equal(t, "v1.0.0", list[1].Metadata().Version)
}
