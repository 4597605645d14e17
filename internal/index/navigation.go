package index

import "git.home.luguber.info/inful/fsblog/internal/entity"

// CategoryInfo describes one category that holds blog posts, for navigation
// templates.
type CategoryInfo struct {
	Name  string
	Link  string
	Posts []entity.Entry
}

// CategoriesInfo groups all blog posts by category. Categories appear in the
// order their first post was scanned.
func (i *Index) CategoriesInfo(baseURI string) []CategoryInfo {
	var out []CategoryInfo
	pos := map[string]int{}
	for _, e := range i.entities {
		if e.Kind != entity.KindBlogPost {
			continue
		}
		n, ok := pos[e.Category]
		if !ok {
			n = len(out)
			pos[e.Category] = n
			out = append(out, CategoryInfo{Name: e.Category, Link: baseURI + e.Category})
		}
		out[n].Posts = append(out[n].Posts, e.Annotate(baseURI))
	}
	return out
}

// Pages returns every page annotated with baseURI, in scan order.
func (i *Index) Pages(baseURI string) []entity.Entry {
	var out []entity.Entry
	for _, e := range i.entities {
		if e.Kind == entity.KindPage {
			out = append(out, e.Annotate(baseURI))
		}
	}
	return out
}
