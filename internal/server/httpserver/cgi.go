package httpserver

import (
	"log/slog"
	"net/http"
	"net/http/cgi"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/server/handlers"
	smw "git.home.luguber.info/inful/fsblog/internal/server/middleware"
)

// NewCGIHandler returns the blog handler wrapped for a single CGI request.
// scriptName is the SCRIPT_NAME the web server passed in.
func NewCGIHandler(svc *blog.Service, scriptName string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	adapter := ferrors.NewHTTPErrorAdapter(logger, svc.Config().Blog.Title)
	h := handlers.NewBlogHandler(svc, adapter)
	h.ScriptName = scriptName
	return smw.Mode("cgi")(smw.Chain(logger, adapter)(h))
}

// ServeCGI answers the CGI request described by the process environment.
func ServeCGI(svc *blog.Service, scriptName string, logger *slog.Logger) error {
	if err := cgi.Serve(NewCGIHandler(svc, scriptName, logger)); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "serve CGI request").Build()
	}
	return nil
}
