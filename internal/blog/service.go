package blog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/fsblog/internal/config"
	"git.home.luguber.info/inful/fsblog/internal/entity"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/index"
	"git.home.luguber.info/inful/fsblog/internal/logfields"
	"git.home.luguber.info/inful/fsblog/internal/metrics"
	"git.home.luguber.info/inful/fsblog/internal/observability"
	"git.home.luguber.info/inful/fsblog/internal/plugin"
	"git.home.luguber.info/inful/fsblog/internal/plugin/transforms"
	"git.home.luguber.info/inful/fsblog/internal/render"
	"git.home.luguber.info/inful/fsblog/internal/uripath"
)

// Request is one blog request independent of transport.
type Request struct {
	// Path is the raw request path (PATH_INFO), including any date prefix,
	// format extension and ";tags" suffix.
	Path string
	// Format is the requested format when the path carries no extension.
	Format string
	// Page is the zero-based category page.
	Page int
	// BaseURI is used when the configuration leaves blog.base_uri empty.
	BaseURI string
}

// Service renders blog requests.
type Service struct {
	cfg      *config.Config
	parser   entity.Parser
	holder   *render.Holder
	pipeline *transforms.Pipeline
	recorder metrics.Recorder
	now      func() time.Time
}

// NewService builds a service from cfg: it loads the template library and
// assembles the configured plugin pipeline.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, ferrors.ConfigError("configuration is required").Build()
	}
	lib, err := render.LoadLibrary(cfg.Blog.TemplatesDirectory)
	if err != nil {
		return nil, err
	}
	pipeline, err := transforms.Builtins().Pipeline(cfg.Plugins...)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "build plugin pipeline").Build()
	}
	return &Service{
		cfg: cfg,
		parser: entity.Parser{
			DataRoot:      cfg.Blog.DataDirectory,
			PostExtension: cfg.Blog.PostExtension,
			PageExtension: cfg.Blog.PageExtension,
		},
		holder:   render.NewHolder(lib),
		pipeline: pipeline,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}, nil
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithPipeline replaces the configured plugin pipeline.
func (s *Service) WithPipeline(p *transforms.Pipeline) *Service {
	s.pipeline = p
	return s
}

// WithClock sets the clock used for LastUpdateTime when no post dates a page.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Holder exposes the live template library so a watcher can swap it.
func (s *Service) Holder() *render.Holder { return s.holder }

// ActivePlugins returns the names of the transforms applied to content, in
// pipeline order.
func (s *Service) ActivePlugins() []string { return s.pipeline.Names() }

// Config returns the configuration the service was built with.
func (s *Service) Config() *config.Config { return s.cfg }

// Index scans the data directory and updates the entity gauges.
func (s *Service) Index(ctx context.Context) (*index.Index, error) {
	ctx, span := observability.StartSpan(ctx, "scan")
	idx, err := index.Build(ctx, s.parser)
	span.RecordError(err)
	s.recorder.ObserveScanDuration(span.End())
	if err != nil {
		return nil, err
	}
	counts := idx.CountByKind()
	for _, k := range []entity.Kind{entity.KindCategory, entity.KindBlogPost, entity.KindPage} {
		s.recorder.SetIndexEntities(k.String(), counts[k])
	}
	return idx, nil
}

// BaseURI returns the configured base URI, or fallback without a trailing
// slash when none is configured.
func (s *Service) BaseURI(fallback string) string {
	if s.cfg.Blog.BaseURI != "" {
		return s.cfg.Blog.BaseURI
	}
	return strings.TrimRight(fallback, "/")
}

// Serve renders req. A path that resolves to nothing still yields a document
// built from the not_found template; errors are reserved for failures the
// reader should see as a diagnostic.
func (s *Service) Serve(ctx context.Context, req Request) (*render.Document, error) {
	rawPath, format := uripath.SplitFormat(req.Path, req.Format)
	ctx = observability.WithFormat(ctx, format)
	ctx = observability.WithURIPath(ctx, rawPath)

	idx, err := s.Index(ctx)
	if err != nil {
		s.recorder.IncRequest(format, metrics.OutcomeError)
		return nil, err
	}

	uriPath, date, tags := uripath.ParseRequestURI(rawPath)
	baseURI := s.BaseURI(req.BaseURI)

	renderer := render.NewRenderer(s.holder.Library(), s.pipeline)
	renderer.PageSize = s.cfg.Blog.PostsPerPage
	renderer.Now = s.now

	ctx, span := observability.StartSpan(ctx, "render")
	doc, err := renderer.Render(render.Request{
		Index:   idx,
		URIPath: uriPath,
		Format:  format,
		Page:    max(req.Page, 0),
		Vars: render.Vars{
			BlogTitle:      s.cfg.Blog.Title,
			BlogBaseURI:    baseURI,
			CategoriesInfo: idx.CategoriesInfo(baseURI),
			Pages:          idx.Pages(baseURI),
		},
		DateFilter: date,
		TagFilter:  tags,
	})
	span.RecordError(err)
	s.recorder.ObserveRenderDuration(format, span.End())

	if err != nil {
		var pe *plugin.PluginError
		if errors.As(err, &pe) {
			s.recorder.IncPluginError(pe.PluginName)
		}
		s.recorder.IncRequest(format, metrics.OutcomeError)
		observability.ErrorContext(ctx, "Render failed", logfields.Error(err))
		return nil, err
	}

	outcome := metrics.OutcomeOK
	if !doc.Found {
		outcome = metrics.OutcomeNotFound
	}
	s.recorder.IncRequest(format, outcome)
	observability.DebugContext(ctx, "Rendered",
		logfields.Page(max(req.Page, 0)),
		slog.Bool("found", doc.Found),
		logfields.Count(len(doc.Body)))
	return doc, nil
}

// Diagnostic builds the text/plain document shown when Serve fails. stack
// may be nil.
func (s *Service) Diagnostic(err error, stack []byte) *render.Document {
	d := ferrors.Diagnostic{Title: s.cfg.Blog.Title, Err: err, Stack: stack}
	return &render.Document{
		ContentType: ferrors.DiagnosticContentType,
		Body:        []byte(d.String()),
	}
}
