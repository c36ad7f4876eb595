// Package client is a Go SDK for an Elasticsearch-compatible search engine.
// It binds the analyze, bulk, document, search and refresh endpoints, and
// passes any go-elasticsearch v7 esapi request through the same transport.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-search/client/internal/api"
	"github.com/mycelian/mycelian-search/client/internal/job"
	"github.com/mycelian/mycelian-search/client/internal/shardqueue"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to one cluster endpoint. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	req     *api.Requester

	exec       executor
	noExecutor bool

	username string
	password string
	apiKey   string

	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration

	closedOnce uint32 // ensures Close is idempotent
}

var _ esapi.Transport = (*Client)(nil)

// New constructs a Client for the cluster at baseURL, e.g.
// "http://localhost:9200". It panics on an empty URL or an invalid option.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:     baseURL,
		http:        &http.Client{Timeout: 30 * time.Second},
		maxRetries:  3,
		baseBackoff: 100 * time.Millisecond,
		maxBackoff:  5 * time.Second,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	if c.apiKey != "" && c.username != "" {
		panic(fmt.Errorf("basic auth and API key are mutually exclusive"))
	}
	if c.exec == nil && !c.noExecutor {
		c.exec = newDefaultExecutor()
	}

	c.wrapTransportWithAuth()
	c.req = &api.Requester{
		HTTP:        c.http,
		BaseURL:     c.baseURL,
		MaxRetries:  c.maxRetries,
		BaseBackoff: c.baseBackoff,
		MaxBackoff:  c.maxBackoff,
	}
	return c
}

// NewFromEnv builds a Client from ESCLIENT_* environment variables. opts are
// applied after the environment settings.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig builds a Client from cfg. opts are applied after cfg.
func NewFromConfig(cfg Config, opts ...Option) (c *Client, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("client: %v", r)
		}
	}()
	return New(cfg.URL, append(cfg.options(), opts...)...), nil
}

// wrapTransportWithAuth installs the authorization transport when
// credentials are configured.
func (c *Client) wrapTransportWithAuth() {
	if c.apiKey == "" && c.username == "" {
		return
	}
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &authTransport{
		base:     baseTransport,
		username: c.username,
		password: c.password,
		apiKey:   c.apiKey,
	}
}

// authTransport wraps an http.RoundTripper to add the Authorization header.
type authTransport struct {
	base     http.RoundTripper
	username string
	password string
	apiKey   string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	if t.apiKey != "" {
		cloned.Header.Set("Authorization", "ApiKey "+t.apiKey)
	} else {
		cloned.SetBasicAuth(t.username, t.password)
	}
	return t.base.RoundTrip(cloned)
}

// Close stops the background executor (if any). Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// AwaitConsistency blocks until all previously submitted async writes for
// index have been executed. It submits a no-op job and waits for it to run,
// relying on FIFO ordering per index.
func (c *Client) AwaitConsistency(ctx context.Context, index string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.exec == nil {
		return ErrNoExecutor
	}
	done := make(chan struct{})
	barrier := job.New("barrier", index, func(context.Context) error {
		close(done)
		return nil
	})
	if err := c.exec.Submit(ctx, index, barrier); err != nil {
		return mapSubmitError(err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// newDefaultExecutor constructs the shardqueue executor from SQ_* settings,
// reporting failed async writes through the log and metrics.
func newDefaultExecutor() *shardqueue.ShardExecutor {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("invalid SQ_* settings, using executor defaults")
		cfg = shardqueue.Config{}
	}
	cfg.ErrorHandler = func(index string, err error) {
		asyncFailedTotal.WithLabelValues(job.ShardLabel(index)).Inc()
		log.Error().Err(err).Str("index", index).Msg("async write failed")
	}
	return shardqueue.NewShardExecutor(cfg)
}

// --------------------------------------------------------------------
// Synchronous operations - delegated to internal/api
// --------------------------------------------------------------------

// Analyze runs text through an analyzer or an ad-hoc tokenizer/filter chain.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	return api.Analyze(ctx, c.req, req)
}

// Bulk sends a batch of document operations. Check BulkResponse.Failed for
// per-item errors.
func (c *Client) Bulk(ctx context.Context, req BulkRequest) (*BulkResponse, error) {
	return api.Bulk(ctx, c.req, req)
}

// Index stores a document synchronously.
func (c *Client) Index(ctx context.Context, req IndexRequest) (*DocumentResponse, error) {
	return api.Index(ctx, c.req, req)
}

// Get fetches a document. A missing document returns an error matching
// ErrNotFound.
func (c *Client) Get(ctx context.Context, req GetRequest) (*GetResponse, error) {
	return api.Get(ctx, c.req, req)
}

// Delete removes a document synchronously.
func (c *Client) Delete(ctx context.Context, req DeleteRequest) (*DocumentResponse, error) {
	return api.Delete(ctx, c.req, req)
}

// Search runs a query.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	return api.Search(ctx, c.req, req)
}

// Refresh makes recent writes searchable.
func (c *Client) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	return api.Refresh(ctx, c.req, req)
}

// Info describes the node that answered.
func (c *Client) Info(ctx context.Context) (*InfoResponse, error) {
	return api.Info(ctx, c.req)
}

// --------------------------------------------------------------------
// Asynchronous writes - FIFO per index through the shard executor
// --------------------------------------------------------------------

// IndexAsync enqueues a document write and returns once it is accepted.
// Failures after acceptance are logged and counted. ctx must stay alive until
// the write runs; a cancelled ctx skips it.
func (c *Client) IndexAsync(ctx context.Context, req IndexRequest) (*EnqueueAck, error) {
	if c.exec == nil {
		return nil, ErrNoExecutor
	}
	ack, err := api.IndexAsync(ctx, c.exec, c.req, req)
	if err != nil {
		return nil, mapSubmitError(err)
	}
	asyncEnqueuedTotal.WithLabelValues(job.ShardLabel(req.Index)).Inc()
	return ack, nil
}

// DeleteAsync enqueues a delete behind pending writes to the same index.
func (c *Client) DeleteAsync(ctx context.Context, req DeleteRequest) (*EnqueueAck, error) {
	if c.exec == nil {
		return nil, ErrNoExecutor
	}
	ack, err := api.DeleteAsync(ctx, c.exec, c.req, req)
	if err != nil {
		return nil, mapSubmitError(err)
	}
	asyncEnqueuedTotal.WithLabelValues(job.ShardLabel(req.Index)).Inc()
	return ack, nil
}

// --------------------------------------------------------------------
// Passthrough for go-elasticsearch requests
// --------------------------------------------------------------------

// Perform implements esapi.Transport. The request path is resolved against
// the client's base URL and sent through its auth and debug transports.
// Status handling is left to the caller.
func (c *Client) Perform(req *http.Request) (*http.Response, error) {
	return c.req.RoundTrip(req)
}

// Do runs any esapi request, e.g. esapi.IndicesCreateRequest, through this
// client.
func (c *Client) Do(ctx context.Context, r esapi.Request) (*esapi.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Do(ctx, c)
}
