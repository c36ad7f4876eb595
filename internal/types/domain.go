package types

import (
	"context"

	clienterrors "github.com/mycelian/mycelian-search/client/internal/errors"
	"github.com/mycelian/mycelian-search/client/internal/shardqueue"
)

// DefaultDocumentType is used when a document request names no type.
const DefaultDocumentType = "_doc"

// ShardStats reports how many shard copies took part in an operation.
type ShardStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped,omitempty"`
	Failed     int `json:"failed"`
}

// ErrorCause is the error object embedded in failed responses and bulk items.
type ErrorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Index  string `json:"index,omitempty"`
}

// ------------------------------
// Shared Interfaces
// ------------------------------

// Executor interface for dependency injection (used by async operations)
type Executor interface {
	Submit(context.Context, string, shardqueue.Job) error
}

// ------------------------------
// Shared Errors
// ------------------------------

// ErrNotFound matches every 404 from the search engine.
var ErrNotFound = clienterrors.ErrNotFound
