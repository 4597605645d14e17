package handlers

import (
	"net/http"
	"time"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/server/responses"
	"git.home.luguber.info/inful/fsblog/internal/version"
)

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	svc          *blog.Service
	errorAdapter *ferrors.HTTPErrorAdapter
	startTime    time.Time
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(svc *blog.Service, adapter *ferrors.HTTPErrorAdapter) *MonitoringHandlers {
	return &MonitoringHandlers{svc: svc, errorAdapter: adapter, startTime: time.Now()}
}

// HandleHealthCheck scans the data directory and reports entity counts and
// loaded formats. A failing scan answers 503.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := ferrors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err, nil)
		return
	}

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Formats:   h.svc.Holder().Library().Formats(),
	}

	status := http.StatusOK
	idx, err := h.svc.Index(r.Context())
	if err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		health.Entities = map[string]int{}
		for kind, n := range idx.CountByKind() {
			health.Entities[kind.String()] = n
		}
	}

	if err := writeJSONPretty(w, r, status, health); err != nil {
		internalErr := ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr, nil)
	}
}
