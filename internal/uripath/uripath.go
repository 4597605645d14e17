// Package uripath maps content files to canonical URI paths and parses
// request paths into a content path plus date and tag filters.
//
// Canonical URI paths are absolute, use single slashes, carry no file
// extension and no trailing slash (the root is "/").
package uripath

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultFormat is used when a request names no format.
const DefaultFormat = "html"

var (
	dayPattern   = regexp.MustCompile(`/(\d{4})/(\d{2})/(\d{2})`)
	monthPattern = regexp.MustCompile(`/(\d{4})/(\d{2})`)
	yearPattern  = regexp.MustCompile(`/(\d{4})`)
)

// ToURIPath converts a file-system path below dataRoot into its canonical URI path.
func ToURIPath(filePath, dataRoot string) string {
	p := stripRoot(filepath.ToSlash(filepath.Clean(filePath)), dataRoot)
	p = squeeze(p)

	// Only the final segment carries an extension.
	slash := strings.LastIndex(p, "/")
	if dot := strings.Index(p[slash+1:], "."); dot >= 0 {
		p = p[:slash+1+dot]
	}

	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func stripRoot(p, dataRoot string) string {
	if dataRoot == "" {
		return p
	}
	root := filepath.ToSlash(filepath.Clean(dataRoot))
	switch {
	case root == "/" || root == ".":
		return p
	case p == root:
		return ""
	case strings.HasPrefix(p, root+"/"):
		return p[len(root):]
	default:
		return p
	}
}

// Normalize collapses repeated slashes and strips trailing slashes. The root
// path normalizes to the empty string.
func Normalize(p string) string {
	return strings.TrimRight(squeeze(p), "/")
}

// squeeze collapses runs of '/' into one.
func squeeze(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' && prevSlash {
			continue
		}
		prevSlash = c == '/'
		b.WriteByte(c)
	}
	return b.String()
}

// ParseRequestURI splits a raw request path into the content path and the
// filters it carries.
//
// The part after the first ';' is a comma-separated tag list. In the part
// before it, the first of /YYYY/MM/DD, /YYYY/MM or /YYYY found anywhere in
// the path becomes the date filter and whatever follows the match becomes the
// content path.
func ParseRequestURI(raw string) (string, DateFilter, TagFilter) {
	left, right, hasTags := strings.Cut(raw, ";")

	var tags TagFilter
	if hasTags {
		tags = ParseTags(right)
	}

	if m := dayPattern.FindStringSubmatchIndex(left); m != nil {
		return left[m[1]:], DateFilter{
			Year:  left[m[2]:m[3]],
			Month: left[m[4]:m[5]],
			Day:   left[m[6]:m[7]],
		}, tags
	}
	if m := monthPattern.FindStringSubmatchIndex(left); m != nil {
		return left[m[1]:], DateFilter{
			Year:  left[m[2]:m[3]],
			Month: left[m[4]:m[5]],
		}, tags
	}
	if m := yearPattern.FindStringSubmatchIndex(left); m != nil {
		return left[m[1]:], DateFilter{Year: left[m[2]:m[3]]}, tags
	}
	return left, DateFilter{}, tags
}

// SplitFormat strips a format extension from the last segment of a request
// path. A ";tags" suffix is ignored when looking for the extension and kept
// on the returned path. Without an extension, fallback (or DefaultFormat when
// fallback is empty) is returned as the format.
func SplitFormat(raw, fallback string) (string, string) {
	if fallback == "" {
		fallback = DefaultFormat
	}
	left, tags, hasTags := strings.Cut(raw, ";")
	slash := strings.LastIndex(left, "/")
	seg := left[slash+1:]
	dot := strings.Index(seg, ".")
	if dot < 0 || dot == len(seg)-1 {
		return raw, fallback
	}
	p := left[:slash+1+dot]
	if hasTags {
		p += ";" + tags
	}
	return p, seg[dot+1:]
}
