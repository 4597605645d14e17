// Package metrics provides request, render and index metrics for fsblog.
//
// Components receive a Recorder through their constructor and default to
// NoopRecorder, so no call site needs a nil check:
//
//	svc := blog.NewService(cfg, holder, pipeline)           // NoopRecorder
//	svc.Recorder = metrics.NewPrometheusRecorder(registry)  // real metrics
//
// PrometheusRecorder registers its collectors on the given registry and
// HTTPHandler exposes that registry in the Prometheus text format.
package metrics
