package errors

import (
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter handles error presentation and status code determination for HTTP applications.
type HTTPErrorAdapter struct {
	logger *slog.Logger
	title  string
}

// NewHTTPErrorAdapter creates a new HTTP error adapter. The title heads every
// diagnostic body. If logger is nil, the default package logger will be used.
func NewHTTPErrorAdapter(logger *slog.Logger, title string) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger, title: title}
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if c, ok := AsClassified(err); ok {
		switch c.Category() {
		case CategoryValidation:
			return http.StatusBadRequest
		case CategoryNotFound:
			return http.StatusNotFound
		case CategoryRuntime:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}

	return http.StatusInternalServerError
}

// WriteErrorResponse writes a text/plain diagnostic response and logs with
// a level derived from the error severity. stack may be nil.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error, stack []byte) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	d := Diagnostic{Title: a.title, Err: err, Stack: stack}

	w.Header().Set("Content-Type", DiagnosticContentType)
	w.WriteHeader(a.StatusCodeFor(err))
	_, _ = w.Write([]byte(d.String()))

	lvl := slogLevelFromSeverity(GetSeverity(err))
	a.logger.Log(r.Context(), lvl, "Request failed",
		slog.String("category", string(GetCategory(err))),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
}
