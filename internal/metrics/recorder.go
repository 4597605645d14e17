package metrics

import "time"

// Outcome enumerates request outcomes for counters.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// Recorder defines observability hooks for scans, renders and requests.
// Implementations may forward to Prometheus; NoopRecorder discards everything.
type Recorder interface {
	IncRequest(format string, outcome Outcome)
	ObserveRenderDuration(format string, d time.Duration)
	ObserveScanDuration(d time.Duration)
	SetIndexEntities(kind string, n int)
	IncPluginError(plugin string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncRequest(string, Outcome)                   {}
func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) ObserveScanDuration(time.Duration)           {}
func (NoopRecorder) SetIndexEntities(string, int)                {}
func (NoopRecorder) IncPluginError(string)                       {}
