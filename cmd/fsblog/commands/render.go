package commands

import (
	"bytes"
	"context"
	"io"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/logfields"
	"git.home.luguber.info/inful/fsblog/internal/observability"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Path    string `arg:"" optional:"" default:"/" help:"Request path, e.g. /2024/tech;go"`
	Format  string `short:"f" help:"Output format when the path has no extension"`
	Page    int    `short:"p" help:"Category page (0 is newest)"`
	Out     string `short:"o" help:"Write to this file atomically instead of stdout"`
	BaseURI string `name:"base-uri" help:"Base URI when blog.base_uri is empty"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	svc, err := root.newService()
	if err != nil {
		return err
	}
	return RunRender(context.Background(), svc, *r, g.out())
}

// RunRender renders one request as a CGI response. On failure the
// diagnostic document is written in its place and the error returned.
func RunRender(ctx context.Context, svc *blog.Service, opts RenderCmd, w io.Writer) error {
	ctx = observability.WithMode(ctx, "cli")
	doc, serveErr := svc.Serve(ctx, blog.Request{
		Path:    opts.Path,
		Format:  opts.Format,
		Page:    opts.Page,
		BaseURI: opts.BaseURI,
	})
	if serveErr != nil {
		doc = svc.Diagnostic(serveErr, ferrors.StackOf(serveErr))
	}

	var buf bytes.Buffer
	if err := doc.WriteCGI(&buf); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode response").Build()
	}

	if opts.Out != "" {
		if err := atomic.WriteFile(opts.Out, &buf); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output").
				WithContext("path", opts.Out).
				Build()
		}
		observability.InfoContext(ctx, "Rendered", logfields.File(opts.Out), logfields.Count(buf.Len()))
	} else if _, err := w.Write(buf.Bytes()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output").Build()
	}
	return serveErr
}
