package render

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"text/template"

	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
)

//go:embed builtin
var builtinFS embed.FS

// Template names every complete set defines.
const (
	TemplateHeader         = "header"
	TemplateBlogPost       = "blog_post"
	TemplateBlogPostSingle = "blog_post_single"
	TemplatePage           = "page"
	TemplateNotFound       = "not_found"
	TemplateFooter         = "footer"

	contentTypeFile = "content_type"
)

// TemplateNames lists the templates of a complete set in rendering order.
var TemplateNames = []string{
	TemplateHeader,
	TemplateBlogPost,
	TemplateBlogPostSingle,
	TemplatePage,
	TemplateNotFound,
	TemplateFooter,
}

// TemplateSet holds the templates of one output format.
type TemplateSet struct {
	Format      string
	ContentType string
	templates   map[string]*template.Template
}

// Missing returns the names the set lacks, the content type included.
func (s *TemplateSet) Missing() []string {
	var missing []string
	if strings.TrimSpace(s.ContentType) == "" {
		missing = append(missing, contentTypeFile)
	}
	for _, name := range TemplateNames {
		if _, ok := s.templates[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Execute renders template name with data into w.
func (s *TemplateSet) Execute(w io.Writer, name string, data any) error {
	tpl, ok := s.templates[name]
	if !ok {
		return ferrors.TemplateError("template not defined").
			WithContext("format", s.Format).
			WithContext("template", name).
			Build()
	}
	if err := tpl.Execute(w, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryTemplate, "render template").
			WithContext("format", s.Format).
			WithContext("template", name).
			Build()
	}
	return nil
}

func (s *TemplateSet) parse(name, body string) error {
	tpl, err := template.New(s.Format + "/" + name).Funcs(Funcs()).Option("missingkey=error").Parse(body)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryTemplate, "parse template").
			WithContext("format", s.Format).
			WithContext("template", name).
			Build()
	}
	s.templates[name] = tpl
	return nil
}

func newTemplateSet(format string) *TemplateSet {
	return &TemplateSet{Format: format, templates: make(map[string]*template.Template)}
}

// Library maps output formats to template sets. It is immutable once built.
type Library struct {
	sets map[string]*TemplateSet
}

// DefaultLibrary returns the built-in html and atom sets.
func DefaultLibrary() *Library {
	lib, err := loadFS(builtinFS, "builtin", nil)
	if err != nil {
		panic(fmt.Sprintf("built-in templates: %v", err))
	}
	return lib
}

// LoadLibrary builds the built-in sets and overlays the templates found
// under dir. Every subdirectory of dir is a format; each file in it named
// after a template (or content_type) replaces the built-in one. An empty dir
// yields the built-in library. Parse failures are template errors.
func LoadLibrary(dir string) (*Library, error) {
	lib := DefaultLibrary()
	if dir == "" {
		return lib, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "templates directory not accessible").
			WithContext("path", dir).
			Build()
	}
	if !info.IsDir() {
		return nil, ferrors.FileSystemError("templates directory is not a directory").
			WithContext("path", dir).
			Build()
	}
	return loadFS(os.DirFS(dir), ".", lib)
}

func loadFS(fsys fs.FS, root string, base *Library) (*Library, error) {
	lib := &Library{sets: make(map[string]*TemplateSet)}
	if base != nil {
		for format, set := range base.sets {
			lib.sets[format] = set.clone()
		}
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read templates directory").Build()
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		format := entry.Name()
		set, ok := lib.sets[format]
		if !ok {
			set = newTemplateSet(format)
			lib.sets[format] = set
		}
		if err := set.overlay(fsys, path.Join(root, format)); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func (s *TemplateSet) overlay(fsys fs.FS, dir string) error {
	if data, err := fs.ReadFile(fsys, path.Join(dir, contentTypeFile)); err == nil {
		s.ContentType = strings.TrimSpace(string(data))
	}
	for _, name := range TemplateNames {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			continue
		}
		if err := s.parse(name, string(data)); err != nil {
			return err
		}
	}
	return nil
}

func (s *TemplateSet) clone() *TemplateSet {
	c := newTemplateSet(s.Format)
	c.ContentType = s.ContentType
	for name, tpl := range s.templates {
		c.templates[name] = tpl
	}
	return c
}

// Formats returns the known format names, sorted.
func (l *Library) Formats() []string {
	out := make([]string, 0, len(l.sets))
	for f := range l.sets {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Set returns the complete template set for format. Unknown formats and
// incomplete sets are template errors.
func (l *Library) Set(format string) (*TemplateSet, error) {
	set, ok := l.sets[format]
	if !ok {
		return nil, ferrors.TemplateError("unknown output format").
			WithContext("format", format).
			Build()
	}
	if missing := set.Missing(); len(missing) > 0 {
		return nil, ferrors.TemplateError("incomplete template set").
			WithContext("format", format).
			WithContext("missing", strings.Join(missing, ",")).
			Build()
	}
	return set, nil
}
