// Package render turns a resolved request into a finished document by
// running entities through content transforms and format templates.
package render

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"time"

	"git.home.luguber.info/inful/fsblog/internal/entity"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/index"
	"git.home.luguber.info/inful/fsblog/internal/plugin/transforms"
	"git.home.luguber.info/inful/fsblog/internal/uripath"
)

// DefaultPageSize is the number of posts on one category page.
const DefaultPageSize = 4

// Vars are the values header, footer and not_found templates see.
type Vars struct {
	BlogTitle        string
	BlogBaseURI      string
	CategoriesInfo   []index.CategoryInfo
	Pages            []entity.Entry
	PreviousPageLink string
	NextPageLink     string
	LastUpdateTime   time.Time
}

// Request is one render call.
type Request struct {
	Index      *index.Index
	URIPath    string
	Format     string
	Page       int
	Vars       Vars
	DateFilter uripath.DateFilter
	TagFilter  uripath.TagFilter
}

// Document is a rendered response.
type Document struct {
	ContentType string
	Body        []byte
	// Found is false when the not_found template produced the main content.
	Found bool
	// Vars holds the header and footer values after rendering.
	Vars Vars
}

// WriteCGI writes the document as a CGI response: a Content-type header, a
// blank line and the body.
func (d *Document) WriteCGI(w io.Writer) error {
	if _, err := io.WriteString(w, "Content-type: "+d.ContentType+"\n\n"); err != nil {
		return err
	}
	_, err := w.Write(d.Body)
	return err
}

// Renderer renders requests against a template library.
type Renderer struct {
	Library  *Library
	Plugins  *transforms.Pipeline
	PageSize int
	// Now supplies LastUpdateTime when a request leaves it unset.
	Now func() time.Time
}

// NewRenderer returns a renderer with the default page size and clock.
func NewRenderer(lib *Library, plugins *transforms.Pipeline) *Renderer {
	return &Renderer{Library: lib, Plugins: plugins, PageSize: DefaultPageSize, Now: time.Now}
}

// Render produces the document for req.
//
// A missing entity, or a post or page rejected by the filters, renders the
// not_found template. A category renders its filtered posts newest first,
// one page at a time; NextPageLink points to newer posts and
// PreviousPageLink to older ones.
func (r *Renderer) Render(req Request) (*Document, error) {
	if r.Library == nil {
		return nil, ferrors.InternalError("renderer has no template library").Build()
	}
	set, err := r.Library.Set(req.Format)
	if err != nil {
		return nil, err
	}

	vars := req.Vars
	vars.PreviousPageLink = ""
	vars.NextPageLink = ""
	if vars.LastUpdateTime.IsZero() {
		vars.LastUpdateTime = r.now()
	}

	idx := req.Index
	if idx == nil {
		idx = index.New()
	}
	req.Index = idx

	var main bytes.Buffer
	found := true

	e, ok := idx.Find(req.URIPath)
	switch {
	case !ok:
		found = false
	case e.Kind == entity.KindBlogPost || e.Kind == entity.KindPage:
		found, err = r.renderSingle(&main, set, req, e, vars.BlogBaseURI)
	case e.Kind == entity.KindCategory:
		found, err = r.renderCategory(&main, set, req, e, &vars)
	default:
		found = false
	}
	if err != nil {
		return nil, err
	}
	if !found {
		if err := set.Execute(&main, TemplateNotFound, vars); err != nil {
			return nil, err
		}
	}

	var body bytes.Buffer
	if err := set.Execute(&body, TemplateHeader, vars); err != nil {
		return nil, err
	}
	body.Write(main.Bytes())
	if err := set.Execute(&body, TemplateFooter, vars); err != nil {
		return nil, err
	}

	return &Document{
		ContentType: set.ContentType,
		Body:        body.Bytes(),
		Found:       found,
		Vars:        vars,
	}, nil
}

func (r *Renderer) renderSingle(w io.Writer, set *TemplateSet, req Request, e *entity.Entity, baseURI string) (bool, error) {
	entry, err := r.prepare(e, req.Format, baseURI)
	if err != nil {
		return false, err
	}
	if !index.Accept(e, req.DateFilter, req.TagFilter) {
		return false, nil
	}
	name := TemplateBlogPostSingle
	if e.Kind == entity.KindPage {
		name = TemplatePage
	}
	return true, set.Execute(w, name, entry)
}

func (r *Renderer) renderCategory(w io.Writer, set *TemplateSet, req Request, e *entity.Entity, vars *Vars) (bool, error) {
	var posts []*entity.Entity
	for _, p := range req.Index.FindEntities(e.Name, entity.KindBlogPost) {
		if index.Accept(p, req.DateFilter, req.TagFilter) {
			posts = append(posts, p)
		}
	}
	if len(posts) == 0 {
		return false, nil
	}

	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Time.After(posts[j].Time) })
	vars.LastUpdateTime = posts[0].Time

	size := r.pageSize()
	page := max(req.Page, 0)
	last := (len(posts) - 1) / size
	start := len(posts)
	if page <= last {
		start = page * size
	}
	for i := start; i < start+size && i < len(posts); i++ {
		entry, err := r.prepare(posts[i], req.Format, vars.BlogBaseURI)
		if err != nil {
			return false, err
		}
		if err := set.Execute(w, TemplateBlogPost, entry); err != nil {
			return false, err
		}
	}

	current := vars.BlogBaseURI + req.URIPath
	if page > 0 {
		vars.NextPageLink = current + "?page=" + strconv.Itoa(page-1)
	}
	if page < last {
		vars.PreviousPageLink = current + "?page=" + strconv.Itoa(page+1)
	}
	return true, nil
}

// prepare annotates e and runs its content through the plugins.
func (r *Renderer) prepare(e *entity.Entity, format, baseURI string) (entity.Entry, error) {
	entry := e.Annotate(baseURI)
	content, err := r.Plugins.Apply(format, entry.Content)
	if err != nil {
		return entity.Entry{}, ferrors.WrapError(err, ferrors.CategoryPlugin, "transform content").
			WithContext("uri_path", e.URIPath).
			WithContext("format", format).
			Build()
	}
	entry.Content = content
	return entry, nil
}

func (r *Renderer) pageSize() int {
	if r.PageSize < 1 {
		return DefaultPageSize
	}
	return r.PageSize
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
