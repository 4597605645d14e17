package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "fsblog"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	requests       *prom.CounterVec
	renderDuration *prom.HistogramVec
	scanDuration   prom.Histogram
	indexEntities  *prom.GaugeVec
	pluginErrors   *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Blog requests by output format and outcome",
		}, []string{"format", "outcome"}),
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a document, scan included",
			Buckets:   prom.DefBuckets,
		}, []string{"format"}),
		scanDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "index_scan_duration_seconds",
			Help:      "Time spent walking the content tree",
			Buckets:   prom.DefBuckets,
		}),
		indexEntities: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "index_entities",
			Help:      "Entities found by the most recent scan",
		}, []string{"kind"}),
		pluginErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_errors_total",
			Help:      "Content transform failures by plugin",
		}, []string{"plugin"}),
	}
	reg.MustRegister(pr.requests, pr.renderDuration, pr.scanDuration, pr.indexEntities, pr.pluginErrors)
	return pr
}

func (p *PrometheusRecorder) IncRequest(format string, outcome Outcome) {
	if p == nil {
		return
	}
	p.requests.WithLabelValues(format, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(format string, d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveScanDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.scanDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetIndexEntities(kind string, n int) {
	if p == nil {
		return
	}
	p.indexEntities.WithLabelValues(kind).Set(float64(n))
}

func (p *PrometheusRecorder) IncPluginError(plugin string) {
	if p == nil {
		return
	}
	p.pluginErrors.WithLabelValues(plugin).Inc()
}
