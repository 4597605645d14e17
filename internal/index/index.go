// Package index holds the entities of one content tree scan and answers
// lookups, category searches and filter checks against them.
package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/fsblog/internal/entity"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/logfields"
	"git.home.luguber.info/inful/fsblog/internal/uripath"
)

// AllCategories matches every category in FindEntities.
const AllCategories = ":all"

// KindAny matches every entity kind in FindEntities.
const KindAny entity.Kind = -1

// Index is an ordered, read-only snapshot of the content tree.
type Index struct {
	entities []*entity.Entity
}

// New returns an index over entities in the given order.
func New(entities ...*entity.Entity) *Index {
	return &Index{entities: entities}
}

// Build walks the parser's data root in lexical pre-order and collects every
// recognized entity. Files that fail to parse are left out.
func Build(ctx context.Context, parser entity.Parser) (*Index, error) {
	root := parser.DataRoot
	info, err := os.Stat(root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "data directory not accessible").
			WithContext("path", root).
			Build()
	}
	if !info.IsDir() {
		return nil, ferrors.FileSystemError("data directory is not a directory").
			WithContext("path", root).
			Build()
	}

	idx := &Index{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			slog.DebugContext(ctx, "Skipping unreadable path", logfields.Path(path), logfields.Error(walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		e, err := parser.ParseEntity(path)
		switch {
		case err == nil:
			idx.entities = append(idx.entities, e)
		case entity.Skipped(err):
		default:
			slog.DebugContext(ctx, "Skipping content file", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "scan data directory").
			WithContext("path", root).
			Build()
	}
	return idx, nil
}

// Entities returns the indexed entities in scan order. Callers must not
// modify the returned slice.
func (i *Index) Entities() []*entity.Entity { return i.entities }

// Len returns the number of indexed entities.
func (i *Index) Len() int { return len(i.entities) }

// Find returns the entity addressed by uriPath. Repeated and trailing slashes
// are ignored and the empty path addresses the root category. When two
// entities share a URI path the first one scanned wins.
func (i *Index) Find(uriPath string) (*entity.Entity, bool) {
	n := uripath.Normalize(uriPath)
	for _, e := range i.entities {
		if e.URIPath == n || e.URIPath == n+"/" {
			return e, true
		}
	}
	return nil, false
}

// FindEntities returns entities whose category starts with categoryPrefix
// and whose kind matches, in scan order. Categories themselves have no
// category and only match AllCategories.
func (i *Index) FindEntities(categoryPrefix string, kind entity.Kind) []*entity.Entity {
	var out []*entity.Entity
	for _, e := range i.entities {
		if kind != KindAny && e.Kind != kind {
			continue
		}
		if categoryPrefix != AllCategories && (e.Kind == entity.KindCategory || !strings.HasPrefix(e.Category, categoryPrefix)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Accept reports whether e passes both the date and the tag filter.
func Accept(e *entity.Entity, date uripath.DateFilter, tags uripath.TagFilter) bool {
	return date.Matches(e.Time) && tags.Matches(e.Tags)
}

// CountByKind returns the number of indexed entities per kind.
func (i *Index) CountByKind() map[entity.Kind]int {
	counts := map[entity.Kind]int{
		entity.KindCategory: 0,
		entity.KindBlogPost: 0,
		entity.KindPage:     0,
	}
	for _, e := range i.entities {
		counts[e.Kind]++
	}
	return counts
}
