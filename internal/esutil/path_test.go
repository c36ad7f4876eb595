package esutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type name string

func (n name) String() string { return string(n) }

func TestEscape(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":            "",
		"foo":         "foo",
		"bar^bam":     "bar%5Ebam",
		"a b":         "a%20b",
		"logs-*":      "logs-*",
		"a/b":         "a/b",
		"100%":        "100%25",
		"k:v,x=y":     "k:v,x=y",
		"café":   "caf%C3%A9",
		"{braces}|<>": "%7Bbraces%7D%7C%3C%3E",
	}
	for in, want := range cases {
		assert.Equal(t, want, Escape(in), "Escape(%q)", in)
	}
}

func TestPathify(t *testing.T) {
	t.Parallel()
	empty := ""
	idx := "logs"
	cases := []struct {
		name string
		in   []any
		want string
	}{
		{"no segments", nil, ""},
		{"all blank", []any{"", " ", nil, "\t"}, ""},
		{"drops blanks", []any{[]any{"foo", "", nil, "bar"}}, "foo/bar"},
		{"variadic", []any{"foo", "", nil, "bar"}, "foo/bar"},
		{"escapes", []any{[]string{"foo", "bar^bam"}}, "foo/bar%5Ebam"},
		{"squeezes", []any{"a", "//", "b"}, "a/b"},
		{"nested", []any{"a", []any{"b", []any{nil, "c"}}}, "a/b/c"},
		{"pointers", []any{&idx, &empty, (*string)(nil), "_analyze"}, "logs/_analyze"},
		{"stringer and scalars", []any{name("idx"), 42, true}, "idx/42/true"},
		{"leading slash kept once", []any{"/", "_search"}, "/_search"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Pathify(tc.in...), tc.name)
	}
}

func TestPathify_Deterministic(t *testing.T) {
	t.Parallel()
	in := []any{"foo", []string{"bar^bam", ""}, nil}
	assert.Equal(t, Pathify(in...), Pathify(in...))
}

func TestListify(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "A,B", Listify([]string{"A", "B"}))
	assert.Equal(t, "A,B", Listify("A", "B"))
	assert.Equal(t, "A", Listify(nil, "A", nil))
	assert.Equal(t, "", Listify())
	assert.Equal(t, "", Listify([]any{}))
	assert.Equal(t, "A,B,C", Listify([]any{"A", []any{"", "B"}}, []string{"C"}))
	assert.Equal(t, "lowercase", Listify("lowercase"))
}
