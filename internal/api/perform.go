package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	clienterrors "github.com/mycelian/mycelian-search/client/internal/errors"
	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// OpaqueIDHeader carries a per-request id the cluster echoes in its task and
// slow logs.
const OpaqueIDHeader = "X-Opaque-Id"

// Requester sends requests to one cluster endpoint and retries the ones that
// failed for transient reasons.
type Requester struct {
	HTTP    HTTPClient
	BaseURL string

	// MaxRetries bounds the extra attempts after the first; 0 disables retry.
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Perform sends method <BaseURL>/<path>?<params> with body and returns the
// fully read response. Non-2xx replies are returned as *errors.ClassifiedError;
// network failures, 408, 429 and 5xx are retried until MaxRetries is spent.
func (r *Requester) Perform(ctx context.Context, method, path string, params esutil.Params, body []byte, contentType string) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := r.URL(path, params)
	op := method + " /" + path

	var out *types.Response
	attempt := func() error {
		resp, err := r.once(ctx, method, target, body, contentType)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return clienterrors.NewNetworkError(op, err)
		}
		if resp.IsError() {
			herr := clienterrors.NewHTTPError(resp.StatusCode, resp.Body, op)
			if herr.Category == clienterrors.Irrecoverable {
				return backoff.Permanent(herr)
			}
			return herr
		}
		out = resp
		return nil
	}
	notify := func(err error, wait time.Duration) {
		retriesTotal.WithLabelValues(method).Inc()
		log.Debug().Err(err).Str("op", op).Dur("wait", wait).Msg("api: retrying request")
	}

	if err := backoff.RetryNotify(attempt, r.policy(ctx), notify); err != nil {
		return nil, err
	}
	return out, nil
}

// RoundTrip sends req once, resolving its path against BaseURL. It is the
// passthrough for requests built elsewhere, so the caller owns the response
// body and status handling.
func (r *Requester) RoundTrip(req *http.Request) (*http.Response, error) {
	base, err := url.Parse(r.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	req.URL.Scheme = base.Scheme
	req.URL.Host = base.Host
	if prefix := strings.TrimRight(base.Path, "/"); prefix != "" {
		req.URL.Path = prefix + "/" + strings.TrimLeft(req.URL.Path, "/")
	}
	req.Host = ""
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if req.Header.Get(OpaqueIDHeader) == "" {
		req.Header.Set(OpaqueIDHeader, uuid.NewString())
	}

	start := time.Now()
	resp, err := r.HTTP.Do(req)
	requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, err
	}
	requestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// URL joins BaseURL, path and the encoded params.
func (r *Requester) URL(path string, params esutil.Params) string {
	u := strings.TrimRight(r.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if q := params.Values().Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func (r *Requester) once(ctx context.Context, method, target string, body []byte, contentType string) (*types.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		if contentType == "" {
			contentType = contentTypeJSON
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(OpaqueIDHeader, uuid.NewString())

	start := time.Now()
	resp, err := r.HTTP.Do(req)
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, "error").Inc()
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &types.Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (r *Requester) policy(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.BaseBackoff
	if exp.InitialInterval <= 0 {
		exp.InitialInterval = 100 * time.Millisecond
	}
	exp.MaxInterval = r.MaxBackoff
	if exp.MaxInterval <= 0 {
		exp.MaxInterval = 5 * time.Second
	}
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(max(r.MaxRetries, 0))), ctx)
}
