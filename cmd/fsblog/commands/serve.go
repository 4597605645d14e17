package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	"git.home.luguber.info/inful/fsblog/internal/logfields"
	"git.home.luguber.info/inful/fsblog/internal/metrics"
	"git.home.luguber.info/inful/fsblog/internal/observability"
	"git.home.luguber.info/inful/fsblog/internal/render"
	"git.home.luguber.info/inful/fsblog/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Address   string `short:"a" help:"Listen address (overrides server.address)"`
	Watch     bool   `short:"w" help:"Reload templates when the templates directory changes"`
	NoMetrics bool   `name:"no-metrics" help:"Do not expose Prometheus metrics"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	svc, err := root.newService()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, svc, *s)
}

// RunServe serves svc until ctx is cancelled.
func RunServe(ctx context.Context, svc *blog.Service, opts ServeCmd) error {
	cfg := svc.Config()
	ctx = observability.WithMode(ctx, "http")

	serverOpts := httpserver.Options{Address: opts.Address}
	if !opts.NoMetrics {
		reg := prom.NewRegistry()
		svc.WithRecorder(metrics.NewPrometheusRecorder(reg))
		serverOpts.MetricsHandler = metrics.HTTPHandler(reg)
	}

	if (opts.Watch || cfg.Server.WatchTemplates) && cfg.Blog.TemplatesDirectory != "" {
		w, err := render.NewWatcher(cfg.Blog.TemplatesDirectory, svc.Holder())
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				observability.ErrorContext(ctx, "Template watcher stopped", logfields.Error(err))
			}
		}()
	} else if opts.Watch {
		slog.Warn("--watch ignored: no templates directory configured")
	}

	return httpserver.New(svc, serverOpts).Run(ctx)
}
