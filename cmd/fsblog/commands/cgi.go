package commands

import (
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/server/httpserver"
)

// CGICmd implements the 'cgi' command.
type CGICmd struct {
	ScriptName string `name:"script-name" env:"SCRIPT_NAME" help:"Script path prefix stripped from request paths"`
}

func (c *CGICmd) Run(g *Global, root *CLI) error {
	svc, title, err := startCGI(root)
	if err != nil {
		return WriteCGIDiagnostic(g.out(), title, err)
	}
	slog.Debug("Serving CGI request", slog.String("script_name", c.ScriptName), slog.String("path_info", os.Getenv("PATH_INFO")))
	return httpserver.ServeCGI(svc, c.ScriptName, slog.Default())
}

// startCGI builds the service. The blog title is returned whenever the
// configuration loaded, even if the service did not.
func startCGI(root *CLI) (*blog.Service, string, error) {
	cfg, err := root.LoadConfig()
	if err != nil {
		return nil, "", err
	}
	svc, err := blog.NewService(cfg)
	return svc, cfg.Blog.Title, err
}

// WriteCGIDiagnostic answers the web server with a text/plain diagnostic for
// a failure that happened before any request could be served, and returns
// err so the process still exits non-zero.
func WriteCGIDiagnostic(w io.Writer, title string, err error) error {
	d := ferrors.Diagnostic{Title: title, Err: err, Stack: ferrors.StackOf(err)}
	if _, werr := io.WriteString(w, d.CGI()); werr != nil {
		slog.Error("Failed to write CGI diagnostic", slog.String("error", werr.Error()))
	}
	return err
}
