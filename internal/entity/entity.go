// Package entity parses files and directories of the content tree into
// typed blog entities: categories, blog posts and pages.
package entity

import (
	"time"
)

// Kind discriminates the entity variants.
type Kind int

const (
	// KindNone marks a path that is not blog content.
	KindNone Kind = iota
	// KindCategory is a directory of the content tree.
	KindCategory
	// KindBlogPost is a file carrying the post extension.
	KindBlogPost
	// KindPage is a file carrying the page extension.
	KindPage
)

// String returns the name templates and logs use for the kind.
func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindBlogPost:
		return "blog_post"
	case KindPage:
		return "page"
	default:
		return "none"
	}
}

// Entity is one parsed content unit.
//
// Categories only carry URIPath and Name (which are equal). Blog posts and
// pages carry every field. Entities are never modified once indexed.
type Entity struct {
	Kind     Kind
	URIPath  string
	Name     string
	Title    string
	Time     time.Time
	Content  string
	Category string
	Tags     []string
}

// IsContent reports whether the entity is a blog post or a page.
func (e *Entity) IsContent() bool {
	return e.Kind == KindBlogPost || e.Kind == KindPage
}

// HasTag reports whether the entity carries tag.
func (e *Entity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Entry is a render-time copy of an entity annotated with the blog base URI.
// Indexed entities stay untouched.
type Entry struct {
	Entity
	BaseURI   string
	Permalink string
}

// Annotate returns an Entry for e under baseURI.
func (e *Entity) Annotate(baseURI string) Entry {
	return Entry{
		Entity:    *e,
		BaseURI:   baseURI,
		Permalink: baseURI + e.URIPath,
	}
}
