// Package esutil holds the wire helpers shared by every endpoint binding:
// URL path building, comma lists, query parameter allow-lists and the bulk
// NDJSON encoder. Everything here is pure and safe for concurrent use.
package esutil

import (
	"fmt"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes every byte of s that is not an unreserved or
// reserved URI character. Slashes are left alone so Pathify can squeeze them.
//
//	Escape("bar^bam") // "bar%5Ebam"
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')',
		';', '/', '?', ':', '@', '&', '=', '+', '$', ',', '[', ']':
		return false
	}
	return true
}

// Pathify joins segments into a URL path. Nested slices are flattened; nil,
// empty and whitespace-only segments are dropped; the rest are escaped and
// joined with "/", and runs of "/" are collapsed.
//
//	Pathify("foo", "", nil, "bar")  // "foo/bar"
//	Pathify([]string{"a", "//", "b"}) // "a/b"
func Pathify(segments ...any) string {
	parts := make([]string, 0, len(segments))
	for _, s := range flatten(segments) {
		if strings.TrimSpace(s) == "" {
			continue
		}
		parts = append(parts, Escape(s))
	}
	return squeeze(strings.Join(parts, "/"), '/')
}

// squeeze collapses every run of c in s into a single c.
func squeeze(s string, c byte) string {
	if !strings.Contains(s, string([]byte{c, c})) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == c && i > 0 && s[i-1] == c {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// flatten turns an arbitrarily nested list of values into their string forms,
// skipping nil entries. Unknown scalars are rendered with fmt.Sprint.
func flatten(values []any) []string {
	out := make([]string, 0, len(values))
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case nil:
		case string:
			out = append(out, t)
		case *string:
			if t != nil {
				out = append(out, *t)
			}
		case []string:
			out = append(out, t...)
		case []any:
			for _, e := range t {
				walk(e)
			}
		case fmt.Stringer:
			out = append(out, t.String())
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	for _, v := range values {
		walk(v)
	}
	return out
}
