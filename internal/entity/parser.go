package entity

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/uripath"
)

// MetadataMarker starts every metadata line at the top of a content file.
const MetadataMarker = "#"

const tagsKey = MetadataMarker + "tags:"

var (
	// ErrNotContent is returned for paths that are neither directories nor
	// files with a post or page extension.
	ErrNotContent = errors.New("not blog content")
	// ErrUnparseable is returned for content files without a title line and at
	// least one content line after the metadata block.
	ErrUnparseable = errors.New("content file has no title and body")
)

// Skipped reports whether err only means "leave this path out of the index".
func Skipped(err error) bool {
	return errors.Is(err, ErrNotContent) || errors.Is(err, ErrUnparseable)
}

// Parser turns paths below DataRoot into entities.
type Parser struct {
	DataRoot      string
	PostExtension string
	PageExtension string
}

// Classify determines the entity kind of path from the file system.
func (p Parser) Classify(path string) Kind {
	info, err := os.Stat(path)
	if err != nil {
		return KindNone
	}
	return p.classify(path, info)
}

func (p Parser) classify(path string, info fs.FileInfo) Kind {
	if info.IsDir() {
		return KindCategory
	}
	switch filepath.Ext(path) {
	case p.PostExtension:
		return KindBlogPost
	case p.PageExtension:
		return KindPage
	default:
		return KindNone
	}
}

// ParseEntity parses path into an entity of the kind Classify reports.
// Paths that are not content yield ErrNotContent.
func (p Parser) ParseEntity(path string) (*Entity, error) {
	switch kind := p.Classify(path); kind {
	case KindCategory:
		uri := uripath.ToURIPath(path, p.DataRoot)
		return &Entity{Kind: KindCategory, URIPath: uri, Name: uri}, nil
	case KindBlogPost, KindPage:
		e, err := p.ParseContent(path)
		if err != nil {
			return nil, err
		}
		e.Kind = kind
		return e, nil
	default:
		return nil, ErrNotContent
	}
}

// ParseContent reads a post or page file. The returned entity has no Kind
// set; ParseEntity fills it in.
func (p Parser) ParseContent(path string) (*Entity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat content file").
			WithContext("path", path).
			Build()
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotContent
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read content file").
			WithContext("path", path).
			Build()
	}
	return p.ParseBytes(path, data, info.ModTime())
}

// ParseBytes parses the content of a post or page file located at path.
// It performs no I/O, so parsing the same bytes twice yields equal entities.
func (p Parser) ParseBytes(path string, data []byte, mtime time.Time) (*Entity, error) {
	lines := splitLines(string(data))

	var tags []string
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if !strings.HasPrefix(line, MetadataMarker) {
			break
		}
		if rest, ok := strings.CutPrefix(line, tagsKey); ok {
			tags = uripath.ParseTags(rest)
		}
	}

	body := lines[i:]
	if len(body) < 2 {
		return nil, ErrUnparseable
	}
	title := strings.TrimSpace(body[0])
	content := strings.TrimSpace(strings.Join(body[1:], ""))
	if title == "" || content == "" {
		return nil, ErrUnparseable
	}

	base := filepath.Base(path)
	return &Entity{
		URIPath:  uripath.ToURIPath(path, p.DataRoot),
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
		Title:    title,
		Time:     mtime,
		Content:  content,
		Category: uripath.ToURIPath(filepath.Dir(path), p.DataRoot),
		Tags:     tags,
	}, nil
}

// splitLines splits s after every newline, keeping the line endings so the
// body can be rejoined unchanged.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
