package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// expect returns a handler that checks method, escaped path and selected query
// values before replying with body.
func expect(t *testing.T, method, path string, query map[string]string, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			t.Errorf("method = %s, want %s", r.Method, method)
		}
		if got := r.URL.EscapedPath(); got != path {
			t.Errorf("path = %s, want %s", got, path)
		}
		for k, want := range query {
			if got := r.URL.Query().Get(k); got != want {
				t.Errorf("query %s = %q, want %q", k, got, want)
			}
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func TestAnalyze_GetWithJoinedFilters(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		expect(t, http.MethodGet, "/logs/_analyze", map[string]string{
			"text": "Quick Brown", "tokenizer": "whitespace", "filters": "lowercase,stop", "index": "logs",
		}, `{"tokens":[{"token":"quick","position":0},{"token":"brown","position":1}]}`)(w, req)
		if req.URL.Query().Has("bogus") {
			t.Error("unknown argument leaked into query")
		}
	}))

	resp, err := Analyze(context.Background(), r, types.AnalyzeRequest{
		Index:     "logs",
		Text:      "Quick Brown",
		Tokenizer: "whitespace",
		Filters:   []string{"lowercase", "stop"},
		Extra:     esutil.Arguments{"bogus": "x"},
	})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if got := resp.Terms(); len(got) != 2 || got[0] != "quick" || got[1] != "brown" {
		t.Fatalf("unexpected terms: %v", got)
	}
}

func TestAnalyze_PostWhenBodyPresent(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		if string(b) != `{"analyzer":"standard","text":"a b"}` {
			t.Errorf("body = %s", b)
		}
		expect(t, http.MethodPost, "/_analyze", nil, `{"tokens":[]}`)(w, req)
	}))
	body := map[string]any{"text": "a b", "analyzer": "standard"}
	if _, err := Analyze(context.Background(), r, types.AnalyzeRequest{Body: body}); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
}

func TestBulk_SendsNDJSON(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if ct := req.Header.Get("Content-Type"); ct != contentTypeNDJSON {
			t.Errorf("content type = %q", ct)
		}
		b, _ := io.ReadAll(req.Body)
		want := "{\"index\":{\"_id\":\"1\"}}\n{\"title\":\"T\"}\n{\"delete\":{\"_id\":\"2\"}}\n"
		if string(b) != want {
			t.Errorf("body = %q, want %q", b, want)
		}
		expect(t, http.MethodPost, "/logs/_bulk", map[string]string{"refresh": "wait_for"},
			`{"took":3,"errors":true,"items":[{"index":{"_id":"1","status":201}},{"delete":{"_id":"2","status":404,"error":{"type":"not_found","reason":"missing"}}}]}`)(w, req)
	}))

	resp, err := Bulk(context.Background(), r, types.BulkRequest{
		Index:   "logs",
		Refresh: "wait_for",
		Body: esutil.BulkBody{Shape: esutil.BulkWithData, Operations: []esutil.BulkOperation{
			{Action: "index", Meta: map[string]any{"_id": "1"}, Data: map[string]any{"title": "T"}},
			{Action: "delete", Meta: map[string]any{"_id": "2"}},
		}},
	})
	if err != nil {
		t.Fatalf("Bulk error: %v", err)
	}
	failed := resp.Failed()
	if !resp.Errors || len(failed) != 1 || failed[0].ID != "2" {
		t.Fatalf("unexpected failed items: %+v", failed)
	}
}

func TestBulk_RejectsEmptyAndMixedBodies(t *testing.T) {
	t.Parallel()
	r := &Requester{HTTP: &http.Client{Transport: &errRT{}}, BaseURL: "http://example.com"}
	if _, err := Bulk(context.Background(), r, types.BulkRequest{}); err == nil {
		t.Fatal("expected error for empty body")
	}
	mixed := []esutil.BulkBody{
		{Shape: esutil.BulkRaw, Lines: []string{"x"}, Values: []any{"y"}},
		{Shape: esutil.BulkWithData, Lines: []string{"x"}},
	}
	for _, body := range mixed {
		if _, err := Bulk(context.Background(), r, types.BulkRequest{Body: body}); !errors.Is(err, esutil.ErrMixedBulkShape) {
			t.Fatalf("%+v: expected ErrMixedBulkShape, got %v", body, err)
		}
	}
}

func TestBulk_TypeWithoutIndexTargetsAll(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, expect(t, http.MethodPost, "/_all/tweet/_bulk", nil, `{"took":1,"errors":false,"items":[]}`))
	_, err := Bulk(context.Background(), r, types.BulkRequest{
		DocumentType: "tweet",
		Body:         esutil.BulkBody{Shape: esutil.BulkRaw, Lines: []string{`{"delete":{"_index":"logs","_id":"1"}}`}},
	})
	if err != nil {
		t.Fatalf("Bulk error: %v", err)
	}
}

func TestIndex_PutWithIDPostWithout(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPut:
			expect(t, http.MethodPut, "/logs/_doc/a%20b", map[string]string{"op_type": "create"},
				`{"_index":"logs","_id":"a b","result":"created","_version":1}`)(w, req)
		default:
			expect(t, http.MethodPost, "/logs/event", nil, `{"_index":"logs","_id":"gen","result":"created"}`)(w, req)
		}
	}))

	doc := map[string]any{"msg": "hi"}
	got, err := Index(context.Background(), r, types.IndexRequest{Index: "logs", ID: "a b", Document: doc, OpType: "create"})
	if err != nil || got.Result != "created" || got.ID != "a b" {
		t.Fatalf("Index with id: %+v, %v", got, err)
	}
	got, err = Index(context.Background(), r, types.IndexRequest{Index: "logs", DocumentType: "event", Document: doc})
	if err != nil || got.ID != "gen" {
		t.Fatalf("Index without id: %+v, %v", got, err)
	}
}

func TestIndex_Validation(t *testing.T) {
	t.Parallel()
	r := &Requester{HTTP: &http.Client{Transport: &errRT{}}, BaseURL: "http://example.com"}
	if _, err := Index(context.Background(), r, types.IndexRequest{Document: map[string]any{}}); err == nil {
		t.Fatal("expected error for missing index")
	}
	if _, err := Index(context.Background(), r, types.IndexRequest{Index: "logs"}); err == nil {
		t.Fatal("expected error for missing document")
	}
	if _, err := Index(context.Background(), r, types.IndexRequest{Index: "Logs", Document: "{}"}); err == nil {
		t.Fatal("expected error for uppercase index name")
	}
}

func TestGet_DecodesSourceAndNotFound(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/logs/_doc/missing" {
			writeJSON(w, http.StatusNotFound, `{"_index":"logs","_id":"missing","found":false}`)
			return
		}
		expect(t, http.MethodGet, "/logs/_doc/1", map[string]string{"_source_include": "title,tags"},
			`{"_index":"logs","_id":"1","found":true,"_source":{"title":"T"}}`)(w, req)
	}))

	got, err := Get(context.Background(), r, types.GetRequest{Index: "logs", ID: "1", SourceIncludes: []string{"title", "tags"}})
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	var src struct{ Title string }
	if err := got.DecodeSource(&src); err != nil || src.Title != "T" {
		t.Fatalf("DecodeSource: %+v, %v", src, err)
	}

	if _, err := Get(context.Background(), r, types.GetRequest{Index: "logs", ID: "missing"}); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := Get(context.Background(), r, types.GetRequest{Index: "logs"}); err == nil {
		t.Fatal("expected validation error for missing id")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, expect(t, http.MethodDelete, "/logs/_doc/1", map[string]string{"refresh": "true"},
		`{"_index":"logs","_id":"1","result":"deleted"}`))
	got, err := Delete(context.Background(), r, types.DeleteRequest{Index: "logs", ID: "1", Refresh: "true"})
	if err != nil || got.Result != "deleted" {
		t.Fatalf("Delete: %+v, %v", got, err)
	}
}

func TestSearch_MultiIndexAndQueryString(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, expect(t, http.MethodGet, "/logs,metrics/_search", map[string]string{"q": "title:go", "size": "5"},
		`{"took":1,"hits":{"total":{"value":1,"relation":"eq"},"hits":[{"_index":"logs","_id":"1","_source":{"title":"go"}}]}}`))

	size := 5
	got, err := Search(context.Background(), r, types.SearchRequest{Index: []string{"logs", "metrics"}, Query: "title:go", Size: &size})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got.Hits.Total.Value != 1 || len(got.Hits.Hits) != 1 || got.Hits.Hits[0].ID != "1" {
		t.Fatalf("unexpected hits: %+v", got.Hits)
	}
}

func TestSearch_TypeWithoutIndexTargetsAll(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, expect(t, http.MethodGet, "/_all/tweet/_search", nil, `{"hits":{"total":0,"hits":[]}}`))
	if _, err := Search(context.Background(), r, types.SearchRequest{DocumentType: []string{"tweet"}}); err != nil {
		t.Fatalf("Search error: %v", err)
	}
}

func TestSearch_PostsBody(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, expect(t, http.MethodPost, "/_search", nil, `{"hits":{"total":0,"hits":[]}}`))
	body := map[string]any{"query": map[string]any{"match_all": map[string]any{}}}
	got, err := Search(context.Background(), r, types.SearchRequest{Body: body})
	if err != nil || got.Hits.Total.Value != 0 {
		t.Fatalf("Search: %+v, %v", got, err)
	}
}

func TestRefreshAndInfo(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/" {
			expect(t, http.MethodGet, "/", nil, `{"name":"node-1","cluster_name":"dev","version":{"number":"7.3.0"}}`)(w, req)
			return
		}
		expect(t, http.MethodPost, "/logs/_refresh", map[string]string{"ignore_unavailable": "true"},
			`{"_shards":{"total":2,"successful":1,"failed":0}}`)(w, req)
	}))

	yes := true
	ref, err := Refresh(context.Background(), r, types.RefreshRequest{Index: []string{"logs"}, IgnoreUnavailable: &yes})
	if err != nil || ref.Shards.Successful != 1 {
		t.Fatalf("Refresh: %+v, %v", ref, err)
	}
	info, err := Info(context.Background(), r)
	if err != nil || info.Version.Number != "7.3.0" || info.ClusterName != "dev" {
		t.Fatalf("Info: %+v, %v", info, err)
	}
}

func TestIndexAsync_SubmitsKeyedByIndex(t *testing.T) {
	t.Parallel()
	r := newTestRequester(t, expect(t, http.MethodPut, "/logs/_doc/1", nil, `{"result":"created"}`))
	exec := &mockExec{}

	ack, err := IndexAsync(context.Background(), exec, r, types.IndexRequest{Index: "logs", ID: "1", Document: map[string]any{"a": 1}})
	if err != nil {
		t.Fatalf("IndexAsync error: %v", err)
	}
	if ack.Index != "logs" || ack.ID != "1" || ack.Status != "enqueued" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if len(exec.calls) != 1 || exec.calls[0] != "logs" || exec.errs[0] != nil {
		t.Fatalf("expected one successful job for key logs, got %+v %v", exec.calls, exec.errs)
	}
}

func TestDeleteAsync_SubmitErrorAndValidation(t *testing.T) {
	t.Parallel()
	r := &Requester{HTTP: &http.Client{Transport: &errRT{}}, BaseURL: "http://example.com"}
	if _, err := DeleteAsync(context.Background(), &failingExec{}, r, types.DeleteRequest{Index: "logs", ID: "1"}); err == nil {
		t.Fatal("expected submit error")
	}
	exec := &mockExec{}
	if _, err := DeleteAsync(context.Background(), exec, r, types.DeleteRequest{Index: "logs"}); err == nil {
		t.Fatal("expected validation error for missing id")
	}
	if exec.n != 0 {
		t.Fatal("invalid request must not be submitted")
	}
}
