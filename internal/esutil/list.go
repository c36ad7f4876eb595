package esutil

import "strings"

// Listify flattens values, drops nil and empty entries and joins the rest with
// a comma. It is how scalar-or-list arguments become a single wire value.
//
//	Listify([]string{"A", "B"}) // "A,B"
//	Listify(nil, "A", nil)      // "A"
func Listify(values ...any) string {
	flat := flatten(values)
	out := flat[:0]
	for _, v := range flat {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ",")
}
