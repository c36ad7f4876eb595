package types

import (
	"fmt"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ------------------------------
// Response Types
// ------------------------------

// Response is a raw reply from the search engine; the body is fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsError reports whether the status code is outside 2xx.
func (r *Response) IsError() bool {
	return r.StatusCode < 200 || r.StatusCode > 299
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("decode: empty body (status %d)", r.StatusCode)
	}
	return json.Unmarshal(r.Body, v)
}

// String returns the status line followed by the body.
func (r *Response) String() string {
	return fmt.Sprintf("[%d %s] %s", r.StatusCode, http.StatusText(r.StatusCode), r.Body)
}

// AnalyzeToken is one token emitted by the analysis chain.
type AnalyzeToken struct {
	Token       string `json:"token"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Type        string `json:"type"`
	Position    int    `json:"position"`
}

// AnalyzeResponse wraps the _analyze result. Detail is set for format=detailed
// or explain requests.
type AnalyzeResponse struct {
	Tokens []AnalyzeToken      `json:"tokens"`
	Detail jsoniter.RawMessage `json:"detail,omitempty"`
}

// Terms returns the token strings in order.
func (r *AnalyzeResponse) Terms() []string {
	out := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		out[i] = t.Token
	}
	return out
}

// DocumentResponse is returned by index and delete calls.
type DocumentResponse struct {
	Index       string     `json:"_index"`
	Type        string     `json:"_type,omitempty"`
	ID          string     `json:"_id"`
	Version     int64      `json:"_version"`
	Result      string     `json:"result"`
	SeqNo       int64      `json:"_seq_no"`
	PrimaryTerm int64      `json:"_primary_term"`
	Shards      ShardStats `json:"_shards"`
}

// GetResponse is returned by get calls.
type GetResponse struct {
	Index   string              `json:"_index"`
	Type    string              `json:"_type,omitempty"`
	ID      string              `json:"_id"`
	Version int64               `json:"_version"`
	Found   bool                `json:"found"`
	Source  jsoniter.RawMessage `json:"_source,omitempty"`
}

// DecodeSource unmarshals the document source into v.
func (r *GetResponse) DecodeSource(v any) error {
	if len(r.Source) == 0 {
		return fmt.Errorf("document %s/%s has no _source", r.Index, r.ID)
	}
	return json.Unmarshal(r.Source, v)
}

// BulkResponseItem is the outcome of one bulk operation.
type BulkResponseItem struct {
	Index   string      `json:"_index"`
	ID      string      `json:"_id"`
	Version int64       `json:"_version"`
	Result  string      `json:"result"`
	Status  int         `json:"status"`
	Error   *ErrorCause `json:"error,omitempty"`
}

// BulkResponse is returned by bulk calls. Each item is keyed by its action.
type BulkResponse struct {
	Took   int                           `json:"took"`
	Errors bool                          `json:"errors"`
	Items  []map[string]BulkResponseItem `json:"items"`
}

// Failed returns the items whose status is outside 2xx.
func (r *BulkResponse) Failed() []BulkResponseItem {
	var out []BulkResponseItem
	for _, entry := range r.Items {
		for _, item := range entry {
			if item.Status < 200 || item.Status > 299 {
				out = append(out, item)
			}
		}
	}
	return out
}

// HitsTotal decodes both the object form ({"value":n,"relation":"eq"}) and
// the bare number older servers return.
type HitsTotal struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *HitsTotal) UnmarshalJSON(b []byte) error {
	if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		t.Value, t.Relation = n, "eq"
		return nil
	}
	type plain HitsTotal
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("hits.total: %w", err)
	}
	*t = HitsTotal(p)
	return nil
}

// SearchHit is one matching document.
type SearchHit struct {
	Index  string              `json:"_index"`
	Type   string              `json:"_type,omitempty"`
	ID     string              `json:"_id"`
	Score  *float64            `json:"_score"`
	Source jsoniter.RawMessage `json:"_source,omitempty"`
	Sort   []any               `json:"sort,omitempty"`
}

// SearchResponse is returned by search calls.
type SearchResponse struct {
	Took     int        `json:"took"`
	TimedOut bool       `json:"timed_out"`
	ScrollID string     `json:"_scroll_id,omitempty"`
	Shards   ShardStats `json:"_shards"`
	Hits     struct {
		Total    HitsTotal   `json:"total"`
		MaxScore *float64    `json:"max_score"`
		Hits     []SearchHit `json:"hits"`
	} `json:"hits"`
	Aggregations jsoniter.RawMessage `json:"aggregations,omitempty"`
}

// RefreshResponse is returned by refresh calls.
type RefreshResponse struct {
	Shards ShardStats `json:"_shards"`
}

// InfoResponse describes the cluster node that answered.
type InfoResponse struct {
	Name        string `json:"name"`
	ClusterName string `json:"cluster_name"`
	ClusterUUID string `json:"cluster_uuid"`
	Version     struct {
		Number        string `json:"number"`
		BuildFlavor   string `json:"build_flavor,omitempty"`
		LuceneVersion string `json:"lucene_version"`
	} `json:"version"`
	Tagline string `json:"tagline"`
}

// EnqueueAck acknowledges an async write accepted by the shard executor.
type EnqueueAck struct {
	Index  string `json:"index"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}
