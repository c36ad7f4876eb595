package api

import (
	"context"
	"sync"

	"github.com/mycelian/mycelian-search/client/internal/shardqueue"
)

// mockExec is a test helper that records submitted keys and runs jobs inline.
type mockExec struct {
	mu    sync.Mutex
	n     int
	calls []string
	errs  []error
}

func (m *mockExec) Submit(ctx context.Context, key string, job shardqueue.Job) error {
	err := job.Run(ctx)
	m.mu.Lock()
	m.n++
	m.calls = append(m.calls, key)
	m.errs = append(m.errs, err)
	m.mu.Unlock()
	return nil
}
