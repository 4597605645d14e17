package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/render"
)

// BlogHandler serves rendered blog documents.
type BlogHandler struct {
	svc          *blog.Service
	errorAdapter *ferrors.HTTPErrorAdapter
	// ScriptName is the CGI SCRIPT_NAME. It is removed from request paths and
	// kept in the derived base URI.
	ScriptName string
}

// NewBlogHandler creates a blog handler for svc.
func NewBlogHandler(svc *blog.Service, adapter *ferrors.HTTPErrorAdapter) *BlogHandler {
	return &BlogHandler{svc: svc, errorAdapter: adapter}
}

// ServeHTTP renders the request. Not-found renders are still 200 responses;
// failures become a text/plain diagnostic.
func (h *BlogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		err := ferrors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err, nil)
		return
	}

	q := r.URL.Query()
	doc, err := h.svc.Serve(r.Context(), blog.Request{
		Path:    h.requestPath(r),
		Format:  q.Get("format"),
		Page:    ParsePage(q.Get("page")),
		BaseURI: h.baseURI(r),
	})
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err, ferrors.StackOf(err))
		return
	}

	etag := ETag(doc)
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(doc.Body)
}

func (h *BlogHandler) requestPath(r *http.Request) string {
	p := r.URL.Path
	if h.ScriptName != "" {
		p = strings.TrimPrefix(p, h.ScriptName)
	}
	if p == "" {
		p = "/"
	}
	return p
}

// baseURI derives scheme://host/script for deployments without a
// configured base URI.
func (h *BlogHandler) baseURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host + h.ScriptName
}

// ParsePage reads the page query parameter. Missing, non-numeric and
// negative values all mean the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ETag fingerprints a rendered document.
func ETag(doc *render.Document) string {
	return `"` + mdfp.CalculateFingerprintFromParts(doc.ContentType, string(doc.Body)) + `"`
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
