package uripath

import (
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/fsblog/internal/util/sets"
)

// DateFilter restricts entities to a year, month or day. Unset fields match
// anything.
type DateFilter struct {
	Year  string
	Month string
	Day   string
}

// IsZero reports whether no field is set.
func (f DateFilter) IsZero() bool {
	return f.Year == "" && f.Month == "" && f.Day == ""
}

// Matches reports whether t falls inside the filter. Fields compare
// numerically so "05" matches May.
func (f DateFilter) Matches(t time.Time) bool {
	return fieldMatches(f.Year, t.Year()) &&
		fieldMatches(f.Month, int(t.Month())) &&
		fieldMatches(f.Day, t.Day())
}

func fieldMatches(want string, got int) bool {
	if want == "" {
		return true
	}
	n, err := strconv.Atoi(want)
	return err == nil && n == got
}

// TagFilter holds the tags a request asks for. An empty filter accepts
// everything; otherwise at least one tag must be shared.
type TagFilter []string

// ParseTags splits a comma-separated tag list, trimming blanks and dropping
// empty and repeated entries.
func ParseTags(s string) TagFilter {
	var out TagFilter
	seen := sets.New[string]()
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen.Has(tag) {
			continue
		}
		seen.Add(tag)
		out = append(out, tag)
	}
	return out
}

// Matches reports whether tags intersects the filter.
func (f TagFilter) Matches(tags []string) bool {
	if len(f) == 0 {
		return true
	}
	want := sets.New(f...)
	for _, tag := range tags {
		if want.Has(tag) {
			return true
		}
	}
	return false
}
