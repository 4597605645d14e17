package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/fsblog/internal/entity"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/index"
	"git.home.luguber.info/inful/fsblog/internal/plugin"
	"git.home.luguber.info/inful/fsblog/internal/plugin/transforms"
	"git.home.luguber.info/inful/fsblog/internal/uripath"
)

var baseTime = time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)

// testLibrary writes a compact "test" format whose templates make output easy
// to assert on.
func testLibrary(t *testing.T) *Library {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"content_type":     "text/test",
		"header":           "H[{{.BlogTitle}}|{{len .CategoriesInfo}}|{{len .Pages}}]\n",
		"blog_post":        "P[{{.Title}}|{{.Content}}|{{.Permalink}}]\n",
		"blog_post_single": "S[{{.Title}}|{{.Content}}]\n",
		"page":             "G[{{.Title}}|{{.Content}}]\n",
		"not_found":        "NF[{{.BlogTitle}}]\n",
		"footer":           "F[{{.NextPageLink}}|{{.PreviousPageLink}}|{{atomTime .LastUpdateTime}}]\n",
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "test"), 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "test", name), []byte(body), 0o644))
	}
	lib, err := LoadLibrary(dir)
	require.NoError(t, err)
	return lib
}

func post(uri, category string, n int) *entity.Entity {
	return &entity.Entity{
		Kind:     entity.KindBlogPost,
		URIPath:  uri,
		Name:     filepath.Base(uri),
		Title:    fmt.Sprintf("post%d", n),
		Content:  fmt.Sprintf("body%d", n),
		Category: category,
		Time:     baseTime.Add(time.Duration(n) * time.Hour),
	}
}

func tenPostIndex() *index.Index {
	entities := []*entity.Entity{
		{Kind: entity.KindCategory, URIPath: "/", Name: "/"},
		{Kind: entity.KindCategory, URIPath: "/blog", Name: "/blog"},
	}
	// Scan order is oldest first; rendering sorts newest first.
	for i := 0; i < 10; i++ {
		entities = append(entities, post(fmt.Sprintf("/blog/p%d", i), "/blog", i))
	}
	entities = append(entities, &entity.Entity{
		Kind: entity.KindPage, URIPath: "/about", Name: "about",
		Title: "About", Content: "Us", Category: "/", Time: baseTime,
	})
	return index.New(entities...)
}

func newTestRequest(idx *index.Index, uri string, page int) Request {
	return Request{
		Index:   idx,
		URIPath: uri,
		Format:  "test",
		Page:    page,
		Vars: Vars{
			BlogTitle:      "Blog",
			BlogBaseURI:    "http://x",
			CategoriesInfo: idx.CategoriesInfo("http://x"),
			Pages:          idx.Pages("http://x"),
		},
	}
}

func TestRender_CategoryPagination(t *testing.T) {
	r := NewRenderer(testLibrary(t), nil)
	idx := tenPostIndex()

	doc, err := r.Render(newTestRequest(idx, "/blog", 1))
	require.NoError(t, err)
	body := string(doc.Body)

	// Newest first: post9..post0; page 1 holds post5..post2.
	assert.Equal(t, "text/test", doc.ContentType)
	assert.True(t, doc.Found)
	assert.Equal(t, 4, strings.Count(body, "P["))
	for _, n := range []int{5, 4, 3, 2} {
		assert.Contains(t, body, fmt.Sprintf("P[post%d|body%d|http://x/blog/p%d]", n, n, n))
	}
	assert.Less(t, strings.Index(body, "post5"), strings.Index(body, "post2"))
	assert.NotContains(t, body, "post6")
	assert.NotContains(t, body, "post1|")

	// A post exists at index 8, so the older page is linked.
	assert.Equal(t, "http://x/blog?page=0", doc.Vars.NextPageLink)
	assert.Equal(t, "http://x/blog?page=2", doc.Vars.PreviousPageLink)
	assert.True(t, doc.Vars.LastUpdateTime.Equal(baseTime.Add(9*time.Hour)))
	assert.Contains(t, body, "F[http://x/blog?page=0|http://x/blog?page=2|2020-05-01T21:00:00]")
}

func TestRender_CategoryLastPage(t *testing.T) {
	r := NewRenderer(testLibrary(t), nil)
	idx := tenPostIndex()

	doc, err := r.Render(newTestRequest(idx, "/blog", 2))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(doc.Body), "P["))
	assert.Equal(t, "http://x/blog?page=1", doc.Vars.NextPageLink)
	assert.Empty(t, doc.Vars.PreviousPageLink)

	doc, err = r.Render(newTestRequest(idx, "/blog", 0))
	require.NoError(t, err)
	assert.Empty(t, doc.Vars.NextPageLink)
	assert.Equal(t, "http://x/blog?page=1", doc.Vars.PreviousPageLink)
}

func TestRender_CategoryPageOutOfRange(t *testing.T) {
	r := NewRenderer(testLibrary(t), nil)
	idx := tenPostIndex()

	for _, page := range []int{3, 1 << 61, 1 << 62, math.MaxInt} {
		t.Run(fmt.Sprint(page), func(t *testing.T) {
			var doc *Document
			require.NotPanics(t, func() {
				var err error
				doc, err = r.Render(newTestRequest(idx, "/blog", page))
				require.NoError(t, err)
			})
			assert.True(t, doc.Found)
			assert.Zero(t, strings.Count(string(doc.Body), "P["))
			assert.Equal(t, "http://x/blog?page="+fmt.Sprint(page-1), doc.Vars.NextPageLink)
			assert.Empty(t, doc.Vars.PreviousPageLink)
		})
	}
}

func TestRender_StableSortForEqualTimes(t *testing.T) {
	a := post("/c/a", "/c", 0)
	b := post("/c/b", "/c", 0)
	idx := index.New(&entity.Entity{Kind: entity.KindCategory, URIPath: "/c", Name: "/c"}, a, b)

	doc, err := NewRenderer(testLibrary(t), nil).Render(newTestRequest(idx, "/c", 0))
	require.NoError(t, err)
	body := string(doc.Body)
	assert.Less(t, strings.Index(body, "/c/a"), strings.Index(body, "/c/b"))
}

func TestRender_NotFoundKeepsVars(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := NewRenderer(testLibrary(t), nil)
	r.Now = func() time.Time { return now }
	idx := tenPostIndex()

	doc, err := r.Render(newTestRequest(idx, "/nothing/here", 0))
	require.NoError(t, err)
	assert.False(t, doc.Found)
	assert.Equal(t, "H[Blog|1|1]\nNF[Blog]\nF[||2024-01-02T03:04:05]\n", string(doc.Body))
	assert.Equal(t, 1, strings.Count(string(doc.Body), "NF["))
}

func TestRender_SingleEntities(t *testing.T) {
	upper := transforms.Func("upper", func(_, c string) (string, error) { return strings.ToUpper(c), nil })
	r := NewRenderer(testLibrary(t), transforms.NewPipeline(upper))
	idx := tenPostIndex()

	doc, err := r.Render(newTestRequest(idx, "/blog/p3", 0))
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "S[post3|BODY3]")

	doc, err = r.Render(newTestRequest(idx, "/about/", 0))
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "G[About|US]")

	// The indexed entity is never rewritten.
	e, _ := idx.Find("/about")
	assert.Equal(t, "Us", e.Content)
}

func TestRender_FilterRejection(t *testing.T) {
	r := NewRenderer(testLibrary(t), nil)
	idx := tenPostIndex()

	req := newTestRequest(idx, "/blog/p3", 0)
	req.DateFilter = uripath.DateFilter{Year: "2019"}
	doc, err := r.Render(req)
	require.NoError(t, err)
	assert.False(t, doc.Found)
	assert.Contains(t, string(doc.Body), "NF[Blog]")

	req = newTestRequest(idx, "/blog", 0)
	req.TagFilter = uripath.TagFilter{"serious"}
	doc, err = r.Render(req)
	require.NoError(t, err)
	assert.False(t, doc.Found)
	assert.NotContains(t, string(doc.Body), "P[")
}

func TestRender_PluginOrder(t *testing.T) {
	p1 := transforms.Func("p1", func(_, c string) (string, error) { return c + "1", nil })
	p2 := transforms.Func("p2", func(_, c string) (string, error) { return "(" + c + ")", nil })
	idx := tenPostIndex()

	doc, err := NewRenderer(testLibrary(t), transforms.NewPipeline(p1, p2)).Render(newTestRequest(idx, "/blog/p0", 0))
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "S[post0|(body01)]")

	doc, err = NewRenderer(testLibrary(t), transforms.NewPipeline(p2, p1)).Render(newTestRequest(idx, "/blog/p0", 0))
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "S[post0|(body0)1]")
}

func TestRender_PluginFailure(t *testing.T) {
	bad := transforms.Func("bad", func(_, _ string) (string, error) { return "", errors.New("nope") })
	_, err := NewRenderer(testLibrary(t), transforms.NewPipeline(bad)).Render(newTestRequest(tenPostIndex(), "/blog/p0", 0))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPlugin))

	var perr *plugin.PluginError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad", perr.PluginName)
}

func TestRender_UnknownAndIncompleteFormats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rss"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rss", "header"), []byte("x"), 0o644))
	lib, err := LoadLibrary(dir)
	require.NoError(t, err)

	r := NewRenderer(lib, nil)
	req := newTestRequest(tenPostIndex(), "/", 0)

	req.Format = "rss"
	_, err = r.Render(req)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
	assert.Contains(t, err.Error(), "incomplete template set")

	req.Format = "pdf"
	_, err = r.Render(req)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
}

func TestRender_BuiltinFormats(t *testing.T) {
	r := NewRenderer(DefaultLibrary(), nil)
	idx := index.New(
		&entity.Entity{Kind: entity.KindCategory, URIPath: "/", Name: "/"},
		&entity.Entity{
			Kind: entity.KindBlogPost, URIPath: "/hello", Name: "hello", Category: "/",
			Title: "Fish & Chips", Content: "<b>bold</b>", Time: baseTime,
		},
	)

	req := newTestRequest(idx, "/", 0)
	req.Format = "html"
	doc, err := r.Render(req)
	require.NoError(t, err)
	assert.Equal(t, "text/html", doc.ContentType)
	assert.Contains(t, string(doc.Body), `<h1><a href="http://x/hello">Fish & Chips</a></h1><b>bold</b><hr/>`)

	req.Format = "atom"
	doc, err = r.Render(req)
	require.NoError(t, err)
	assert.Equal(t, "application/atom+xml", doc.ContentType)
	body := string(doc.Body)
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, body, "<title>Fish &amp; Chips</title>")
	assert.Contains(t, body, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, body, "<updated>2020-05-01T12:00:00</updated>")
	assert.True(t, strings.HasSuffix(body, "</feed>\n"))
}

func TestDocument_WriteCGI(t *testing.T) {
	doc := &Document{ContentType: "text/html", Body: []byte("<p>x</p>")}
	var buf bytes.Buffer
	require.NoError(t, doc.WriteCGI(&buf))
	assert.Equal(t, "Content-type: text/html\n\n<p>x</p>", buf.String())
}
