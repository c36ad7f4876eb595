package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// lastRequest holds the method, request URI and body of the latest request.
type lastRequest struct {
	mu sync.Mutex
	s  string
}

func (l *lastRequest) set(s string) { l.mu.Lock(); l.s = s; l.mu.Unlock() }

func (l *lastRequest) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s
}

// newCluster serves canned replies and records the last request.
func newCluster(t *testing.T) (*httptest.Server, *lastRequest) {
	t.Helper()
	seen := &lastRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen.set(r.Method + " " + r.URL.RequestURI() + "\n" + string(body))

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/":
			_, _ = io.WriteString(w, `{"name":"node-1","cluster_name":"dev","version":{"number":"7.3.0"}}`)
		case strings.HasSuffix(r.URL.Path, "/_bulk"):
			_, _ = io.WriteString(w, `{"took":1,"errors":false,"items":[{"index":{"_id":"1","status":201}}]}`)
		case strings.HasSuffix(r.URL.Path, "/_analyze"):
			_, _ = io.WriteString(w, `{"tokens":[{"token":"quick"},{"token":"fox"}]}`)
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = io.WriteString(w, `{"hits":{"total":{"value":0,"relation":"eq"},"hits":[]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"found":false}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCLI_Info(t *testing.T) {
	srv, _ := newCluster(t)
	out, err := execute(t, "--url", srv.URL, "info")
	if err != nil {
		t.Fatalf("info cmd failed: %v", err)
	}
	if !strings.Contains(out, `"cluster_name": "dev"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCLI_AnalyzePrintsTerms(t *testing.T) {
	srv, seen := newCluster(t)
	out, err := execute(t, "--url", srv.URL, "analyze", "logs", "--text", "Quick Fox", "--tokenizer", "standard", "--filter", "lowercase", "--filter", "stop")
	if err != nil {
		t.Fatalf("analyze cmd failed: %v", err)
	}
	if !strings.Contains(seen.String(), "filters=lowercase%2Cstop") {
		t.Fatalf("filters not joined: %s", seen)
	}
	if !strings.Contains(out, `"quick"`) || !strings.Contains(out, `"fox"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCLI_BulkFromDescriptorArray(t *testing.T) {
	srv, seen := newCluster(t)
	path := filepath.Join(t.TempDir(), "ops.json")
	if err := os.WriteFile(path, []byte(`[{"index":{"_id":"1","data":{"title":"T"}}}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--url", srv.URL, "bulk", "logs", "--file", path); err != nil {
		t.Fatalf("bulk cmd failed: %v", err)
	}
	want := "POST /logs/_bulk\n{\"index\":{\"_id\":\"1\"}}\n{\"title\":\"T\"}\n"
	if seen.String() != want {
		t.Fatalf("request = %q, want %q", seen.String(), want)
	}
}

func TestParseBulk(t *testing.T) {
	body, err := parseBulk([]byte("{\"delete\":{\"_id\":\"1\"}}\n\n{\"delete\":{\"_id\":\"2\"}}\n"))
	if err != nil {
		t.Fatalf("parseBulk: %v", err)
	}
	if body.Len() != 2 {
		t.Fatalf("expected 2 raw lines, got %d", body.Len())
	}
	if _, err := parseBulk([]byte("  ")); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := parseBulk([]byte(`[{"index":{"data":{}}}, "raw"]`)); err == nil {
		t.Fatal("expected error for mixed shapes")
	}
}

func TestCLI_SearchWithQueryString(t *testing.T) {
	srv, seen := newCluster(t)
	if _, err := execute(t, "--url", srv.URL, "search", "logs", "metrics", "-q", "level:error", "--size", "5"); err != nil {
		t.Fatalf("search cmd failed: %v", err)
	}
	line := strings.SplitN(seen.String(), "\n", 2)[0]
	if !strings.HasPrefix(line, "GET /logs,metrics/_search?") || !strings.Contains(line, "q=level%3Aerror") || !strings.Contains(line, "size=5") {
		t.Fatalf("unexpected request line: %s", line)
	}
}

func TestCLI_GetNotFound(t *testing.T) {
	srv, _ := newCluster(t)
	_, err := execute(t, "--url", srv.URL, "get", "logs", "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCLI_IndexRejectsInvalidJSON(t *testing.T) {
	srv, _ := newCluster(t)
	if _, err := execute(t, "--url", srv.URL, "index", "logs", "1", "--doc", "{nope"); err == nil {
		t.Fatal("expected error for invalid document")
	}
}
