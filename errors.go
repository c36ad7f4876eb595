package client

import (
	"errors"

	clienterrors "github.com/mycelian/mycelian-search/client/internal/errors"
	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/shardqueue"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// ErrBackPressure is returned when the client's internal shard queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// ErrNoExecutor is returned by async methods on a client built WithoutExecutor.
var ErrNoExecutor = errors.New("async writes disabled (no executor)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	ErrNotFound           = types.ErrNotFound
	ErrExecutorClosed     = shardqueue.ErrExecutorClosed
	ErrMixedBulkShape     = esutil.ErrMixedBulkShape
	ErrMalformedOperation = esutil.ErrMalformedOperation
)

// Error is the error returned for non-2xx responses and network failures.
type Error = clienterrors.ClassifiedError

// IsNotFound reports whether err is a 404 from the cluster.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsRetryable reports whether err is a network failure, 408, 429 or 5xx.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Category == clienterrors.Recoverable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return clienterrors.StatusCode(err) }

func mapSubmitError(err error) error {
	if errors.Is(err, shardqueue.ErrQueueFull) {
		return errors.Join(ErrBackPressure, err)
	}
	return err
}
