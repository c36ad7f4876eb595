package esutil

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Arguments are the caller-supplied options of a single request.
type Arguments map[string]any

// Params are the query parameters that survived an allow-list.
type Params map[string]any

// Allow-lists of the bound endpoints.
var (
	AnalyzeParams = []string{
		"analyzer", "field", "filters", "index", "prefer_local", "text", "tokenizer", "format",
	}
	BulkParams = []string{
		"consistency", "refresh", "replication", "routing", "timeout", "type", "fields", "pipeline",
	}
	IndexParams = []string{
		"consistency", "op_type", "parent", "percolate", "refresh", "replication", "routing",
		"timeout", "timestamp", "ttl", "version", "version_type", "pipeline",
	}
	GetParams = []string{
		"fields", "parent", "preference", "realtime", "refresh", "routing",
		"_source", "_source_exclude", "_source_include",
	}
	DeleteParams = []string{
		"consistency", "parent", "refresh", "replication", "routing", "timeout", "version", "version_type",
	}
	SearchParams = []string{
		"analyzer", "default_operator", "df", "explain", "fields", "from", "ignore_unavailable",
		"allow_no_indices", "preference", "q", "routing", "scroll", "search_type", "size", "sort",
		"_source", "_source_include", "_source_exclude", "timeout", "track_total_hits",
	}
	RefreshParams = []string{
		"allow_no_indices", "expand_wildcards", "ignore_unavailable",
	}
)

// FilterParams returns the subset of args whose keys are in allowed. Values are
// copied unchanged except "filters", which is list-joined and dropped when
// nothing is left to join. args is not modified.
func FilterParams(args Arguments, allowed ...string) Params {
	params := make(Params, len(allowed))
	for _, k := range allowed {
		v, ok := args[k]
		if !ok {
			continue
		}
		if k == "filters" {
			joined := Listify(v)
			if joined == "" {
				continue
			}
			v = joined
		}
		params[k] = v
	}
	return params
}

// Values renders params as query values. Nil values are omitted.
func (p Params) Values() url.Values {
	q := make(url.Values, len(p))
	for k, v := range p {
		if s, ok := formatParam(v); ok {
			q.Set(k, s)
		}
	}
	return q
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatParam(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case bool:
		return strconv.FormatBool(t), true
	case *bool:
		if t == nil {
			return "", false
		}
		return strconv.FormatBool(*t), true
	case int:
		return strconv.Itoa(t), true
	case *int:
		if t == nil {
			return "", false
		}
		return strconv.Itoa(*t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case time.Duration:
		return FormatDuration(t), true
	case []string, []any:
		return Listify(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// FormatDuration renders d in the time-unit syntax the search engine accepts.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return strconv.FormatInt(int64(d), 10) + "nanos"
	}
	return strconv.FormatInt(int64(d)/int64(time.Millisecond), 10) + "ms"
}
