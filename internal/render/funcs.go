package render

import (
	"strings"
	"text/template"
	"time"
)

// AtomTimeLayout is the timestamp layout of the built-in Atom templates.
const AtomTimeLayout = "2006-01-02T15:04:05"

// Funcs returns the helper functions available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"atomTime": func(t time.Time) string { return t.Format(AtomTimeLayout) },
		"rfc3339":  func(t time.Time) string { return t.Format(time.RFC3339) },
		"date":     func(layout string, t time.Time) string { return t.Format(layout) },
		"join":     func(elems []string, sep string) string { return strings.Join(elems, sep) },
	}
}
