package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mycelian/mycelian-search/client/internal/shardqueue"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{ calls int }

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) {
	e.calls++
	return nil, fmt.Errorf("boom")
}

// failingExec implements types.Executor and always fails Submit.
type failingExec struct{}

func (f *failingExec) Submit(ctx context.Context, key string, job shardqueue.Job) error {
	return fmt.Errorf("submit failed")
}

// newTestRequester points a Requester with millisecond backoff at h.
func newTestRequester(t *testing.T, h http.Handler) *Requester {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Requester{
		HTTP:        srv.Client(),
		BaseURL:     srv.URL,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  time.Millisecond,
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
