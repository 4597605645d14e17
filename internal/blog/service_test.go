package blog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/fsblog/internal/config"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/metrics"
	"git.home.luguber.info/inful/fsblog/internal/plugin/transforms"
)

type fakeRecorder struct {
	mu           sync.Mutex
	requests     map[string]int
	pluginErrors map[string]int
	entities     map[string]int
	scans        int
	renders      int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		requests:     map[string]int{},
		pluginErrors: map[string]int{},
		entities:     map[string]int{},
	}
}

func (f *fakeRecorder) IncRequest(format string, outcome metrics.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[format+"/"+string(outcome)]++
}

func (f *fakeRecorder) ObserveRenderDuration(string, time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders++
}

func (f *fakeRecorder) ObserveScanDuration(time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
}

func (f *fakeRecorder) SetIndexEntities(kind string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entities[kind] = n
}

func (f *fakeRecorder) IncPluginError(plugin string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pluginErrors[plugin]++
}

var (
	firstTime  = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	secondTime = time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)
)

func writeContent(t *testing.T, root, rel, body string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func newTestService(t *testing.T) (*Service, *fakeRecorder) {
	t.Helper()
	root := t.TempDir()
	writeContent(t, root, "blog/first.blog", "#tags: go, web\nFirst post\nHello\nworld\n", firstTime)
	writeContent(t, root, "blog/second.blog", "Second post\n<p>Already wrapped</p>\n", secondTime)
	writeContent(t, root, "about.page", "About\nThis blog.\n", firstTime)
	writeContent(t, root, "broken.blog", "only a title\n", firstTime)

	cfg := config.Default()
	cfg.Blog.Title = "Test blog"
	cfg.Blog.DataDirectory = root
	cfg.Blog.PostsPerPage = 1

	svc, err := NewService(cfg)
	require.NoError(t, err)
	rec := newFakeRecorder()
	svc.WithRecorder(rec).WithClock(func() time.Time { return firstTime })
	return svc, rec
}

func TestServe_CategoryPage(t *testing.T) {
	svc, rec := newTestService(t)

	doc, err := svc.Serve(context.Background(), Request{Path: "/blog", BaseURI: "http://example.org/"})
	require.NoError(t, err)
	require.True(t, doc.Found)
	assert.Equal(t, "text/html", doc.ContentType)

	body := string(doc.Body)
	assert.Contains(t, body, `<a href="http://example.org/blog/second">Second post</a>`)
	assert.NotContains(t, body, "First post</a>")
	assert.Contains(t, body, "<p>Already wrapped</p>")
	assert.Equal(t, "http://example.org/blog?page=1", doc.Vars.PreviousPageLink)
	assert.Empty(t, doc.Vars.NextPageLink)
	assert.Equal(t, secondTime, doc.Vars.LastUpdateTime)

	assert.Equal(t, 1, rec.requests["html/ok"])
	assert.Equal(t, 1, rec.scans)
	assert.Equal(t, 1, rec.renders)
	assert.Equal(t, 2, rec.entities["blog_post"])
	assert.Equal(t, 1, rec.entities["page"])
	assert.Equal(t, 2, rec.entities["category"])
}

func TestServe_SecondPageAndParagraphs(t *testing.T) {
	svc, _ := newTestService(t)

	doc, err := svc.Serve(context.Background(), Request{Path: "/blog", Page: 1})
	require.NoError(t, err)
	body := string(doc.Body)
	assert.Contains(t, body, "First post</a>")
	assert.Contains(t, body, "<p>Hello</p>\n<p>world</p>")
	assert.Equal(t, "/blog?page=0", doc.Vars.NextPageLink)
	assert.Empty(t, doc.Vars.PreviousPageLink)
}

func TestServe_FormatFromExtension(t *testing.T) {
	svc, rec := newTestService(t)

	doc, err := svc.Serve(context.Background(), Request{Path: "/blog/first.atom", Format: "html"})
	require.NoError(t, err)
	assert.True(t, doc.Found)
	assert.Equal(t, "application/atom+xml", doc.ContentType)
	assert.True(t, strings.HasSuffix(string(doc.Body), "</feed>\n"))
	assert.Equal(t, 1, rec.requests["atom/ok"])
}

func TestServe_Filters(t *testing.T) {
	svc, _ := newTestService(t)

	doc, err := svc.Serve(context.Background(), Request{Path: "/2024/03/blog"})
	require.NoError(t, err)
	assert.True(t, doc.Found)
	assert.Contains(t, string(doc.Body), "First post")
	assert.NotContains(t, string(doc.Body), "Second post</a>")

	doc, err = svc.Serve(context.Background(), Request{Path: "/blog/second;go"})
	require.NoError(t, err)
	assert.False(t, doc.Found)
}

func TestServe_NotFound(t *testing.T) {
	svc, rec := newTestService(t)

	doc, err := svc.Serve(context.Background(), Request{Path: "/missing", Page: -3})
	require.NoError(t, err)
	assert.False(t, doc.Found)
	assert.Contains(t, string(doc.Body), "<h1>Not found</h1>")
	assert.Contains(t, string(doc.Body), "Test blog")
	require.Len(t, doc.Vars.Pages, 1)
	assert.Equal(t, "/about", doc.Vars.Pages[0].Permalink)
	assert.Equal(t, 1, rec.requests["html/not_found"])
}

func TestServe_PluginFailure(t *testing.T) {
	svc, rec := newTestService(t)
	svc.WithPipeline(transforms.NewPipeline(transforms.Func("explode", func(string, string) (string, error) {
		return "", errors.New("boom")
	})))

	_, err := svc.Serve(context.Background(), Request{Path: "/about"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPlugin))
	assert.Equal(t, 1, rec.pluginErrors["explode"])
	assert.Equal(t, 1, rec.requests["html/error"])

	doc := svc.Diagnostic(err, []byte("goroutine 1"))
	assert.Equal(t, "text/plain", doc.ContentType)
	body := string(doc.Body)
	assert.True(t, strings.HasPrefix(body, "Test blog\n"))
	assert.Contains(t, body, ferrors.DiagnosticMessage)
	assert.Contains(t, body, "boom")
	assert.Contains(t, body, "goroutine 1")
}

func TestServe_MissingDataDirectory(t *testing.T) {
	cfg := config.Default()
	cfg.Blog.DataDirectory = filepath.Join(t.TempDir(), "absent")
	svc, err := NewService(cfg)
	require.NoError(t, err)

	_, err = svc.Serve(context.Background(), Request{Path: "/"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestNewService_Errors(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)

	cfg := config.Default()
	cfg.Plugins = []string{"nope"}
	_, err = NewService(cfg)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	cfg = config.Default()
	cfg.Blog.TemplatesDirectory = filepath.Join(t.TempDir(), "absent")
	_, err = NewService(cfg)
	require.Error(t, err)
}

func TestBaseURI(t *testing.T) {
	cfg := config.Default()
	svc, err := NewService(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://host/cgi", svc.BaseURI("http://host/cgi/"))

	cfg.Blog.BaseURI = "https://blog.example"
	assert.Equal(t, "https://blog.example", svc.BaseURI("http://host"))
}

func TestActivePlugins(t *testing.T) {
	cfg := config.Default()
	cfg.Plugins = []string{transforms.MarkdownName, transforms.AddParagraphsName}
	svc, err := NewService(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{transforms.MarkdownName, transforms.AddParagraphsName}, svc.ActivePlugins())

	svc.WithPipeline(nil)
	assert.Empty(t, svc.ActivePlugins())
}
