package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/logfields"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Path  string `arg:"" help:"URI path of the post or page, e.g. /tech/hello"`
	Raw   bool   `help:"Print the body without terminal rendering"`
	Style string `default:"dark" help:"Glamour style for terminal rendering"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	svc, err := root.newService()
	if err != nil {
		return err
	}
	w := g.out()
	return RunShow(context.Background(), svc, *s, w, !s.Raw && isTerminal(w))
}

// RunShow prints the metadata and body of the post or page at opts.Path.
// With pretty set the body is rendered as Markdown.
func RunShow(ctx context.Context, svc *blog.Service, opts ShowCmd, w io.Writer, pretty bool) error {
	idx, err := svc.Index(ctx)
	if err != nil {
		return err
	}
	e, ok := idx.Find(opts.Path)
	if !ok || !e.IsContent() {
		return ferrors.NotFoundError("no post or page at path").
			WithContext("uri_path", opts.Path).
			Build()
	}

	body := e.Content
	if pretty {
		rendered, renderErr := glamour.Render(body, opts.Style)
		if renderErr == nil {
			body = rendered
		} else {
			slog.Debug("Terminal rendering failed, printing raw body", logfields.Error(renderErr))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", e.Title)
	fmt.Fprintf(&b, "%s  %s  %s\n", e.Kind, e.URIPath, e.Time.Format(time.RFC3339))
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(e.Tags, ", "))
	}
	b.WriteString("\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	_, err = io.WriteString(w, b.String())
	return err
}
