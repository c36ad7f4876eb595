package types

import (
	"time"

	"github.com/mycelian/mycelian-search/client/internal/esutil"
)

// ------------------------------
// Request Types
// ------------------------------
//
// Every request converts to esutil.Arguments; the endpoint binding then runs
// the arguments through its allow-list. Extra carries options that have no
// typed field and is subject to the same allow-list.

// AnalyzeRequest runs text through an analyzer or an ad-hoc
// tokenizer/filter chain.
type AnalyzeRequest struct {
	Index       string
	Body        any
	Analyzer    string
	Field       string
	Filters     []string
	PreferLocal *bool
	Text        string
	Tokenizer   string
	Format      string // detailed or text
	Extra       esutil.Arguments
}

// Arguments implements Request.
func (r AnalyzeRequest) Arguments() esutil.Arguments {
	args := extra(r.Extra)
	put(args, "index", r.Index)
	put(args, "analyzer", r.Analyzer)
	put(args, "field", r.Field)
	put(args, "filters", r.Filters)
	put(args, "prefer_local", r.PreferLocal)
	put(args, "text", r.Text)
	put(args, "tokenizer", r.Tokenizer)
	put(args, "format", r.Format)
	return args
}

// BulkRequest submits several document operations in one call.
type BulkRequest struct {
	Index        string
	DocumentType string
	Body         esutil.BulkBody
	Refresh      string // true, false or wait_for
	Routing      string
	Pipeline     string
	Timeout      time.Duration
	Extra        esutil.Arguments
}

// Arguments implements Request.
func (r BulkRequest) Arguments() esutil.Arguments {
	args := extra(r.Extra)
	put(args, "refresh", r.Refresh)
	put(args, "routing", r.Routing)
	put(args, "pipeline", r.Pipeline)
	put(args, "timeout", r.Timeout)
	return args
}

// IndexRequest stores a document. Without an ID the server assigns one.
type IndexRequest struct {
	Index        string
	DocumentType string
	ID           string
	Document     any
	OpType       string // index or create
	Refresh      string
	Routing      string
	Pipeline     string
	Version      *int
	VersionType  string
	Timeout      time.Duration
	Extra        esutil.Arguments
}

// Arguments implements Request.
func (r IndexRequest) Arguments() esutil.Arguments {
	args := extra(r.Extra)
	put(args, "op_type", r.OpType)
	put(args, "refresh", r.Refresh)
	put(args, "routing", r.Routing)
	put(args, "pipeline", r.Pipeline)
	put(args, "version", r.Version)
	put(args, "version_type", r.VersionType)
	put(args, "timeout", r.Timeout)
	return args
}

// GetRequest fetches a document by ID.
type GetRequest struct {
	Index          string
	DocumentType   string
	ID             string
	Routing        string
	Preference     string
	Realtime       *bool
	SourceIncludes []string
	SourceExcludes []string
	Extra          esutil.Arguments
}

// Arguments implements Request.
func (r GetRequest) Arguments() esutil.Arguments {
	args := extra(r.Extra)
	put(args, "routing", r.Routing)
	put(args, "preference", r.Preference)
	put(args, "realtime", r.Realtime)
	put(args, "_source_include", r.SourceIncludes)
	put(args, "_source_exclude", r.SourceExcludes)
	return args
}

// DeleteRequest removes a document by ID.
type DeleteRequest struct {
	Index        string
	DocumentType string
	ID           string
	Refresh      string
	Routing      string
	Version      *int
	VersionType  string
	Timeout      time.Duration
	Extra        esutil.Arguments
}

// Arguments implements Request.
func (r DeleteRequest) Arguments() esutil.Arguments {
	args := extra(r.Extra)
	put(args, "refresh", r.Refresh)
	put(args, "routing", r.Routing)
	put(args, "version", r.Version)
	put(args, "version_type", r.VersionType)
	put(args, "timeout", r.Timeout)
	return args
}

// SearchRequest queries one or more indices, either with a query DSL body or
// a Lucene query string in Query.
type SearchRequest struct {
	Index          []string
	DocumentType   []string
	Body           any
	Query          string
	From           *int
	Size           *int
	Sort           []string
	Routing        string
	Scroll         time.Duration
	TrackTotalHits *bool
	SourceIncludes []string
	SourceExcludes []string
	Extra          esutil.Arguments
}

// Arguments implements Request.
func (r SearchRequest) Arguments() esutil.Arguments {
	args := extra(r.Extra)
	put(args, "q", r.Query)
	put(args, "from", r.From)
	put(args, "size", r.Size)
	put(args, "sort", r.Sort)
	put(args, "routing", r.Routing)
	put(args, "scroll", r.Scroll)
	put(args, "track_total_hits", r.TrackTotalHits)
	put(args, "_source_include", r.SourceIncludes)
	put(args, "_source_exclude", r.SourceExcludes)
	return args
}

// RefreshRequest makes recent writes visible to search.
type RefreshRequest struct {
	Index             []string
	AllowNoIndices    *bool
	IgnoreUnavailable *bool
	ExpandWildcards   string
	Extra             esutil.Arguments
}

// Arguments implements Request.
func (r RefreshRequest) Arguments() esutil.Arguments {
	args := extra(r.Extra)
	put(args, "allow_no_indices", r.AllowNoIndices)
	put(args, "ignore_unavailable", r.IgnoreUnavailable)
	put(args, "expand_wildcards", r.ExpandWildcards)
	return args
}

// Request is implemented by every typed request.
type Request interface {
	Arguments() esutil.Arguments
}

func extra(in esutil.Arguments) esutil.Arguments {
	args := make(esutil.Arguments, len(in)+8)
	for k, v := range in {
		args[k] = v
	}
	return args
}

// put sets key unless v is a zero value. Typed fields win over Extra.
func put(args esutil.Arguments, key string, v any) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return
		}
	case []string:
		if len(t) == 0 {
			return
		}
	case *bool:
		if t == nil {
			return
		}
		v = *t
	case *int:
		if t == nil {
			return
		}
		v = *t
	case time.Duration:
		if t == 0 {
			return
		}
	}
	args[key] = v
}
