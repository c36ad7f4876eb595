package client

import (
	"context"

	"github.com/mycelian/mycelian-search/client/internal/shardqueue"
)

// Executor runs async writes in FIFO order per key. *shardqueue.ShardExecutor
// from NewExecutor is the default implementation.
type Executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Stop()
}

type executor = Executor

// ExecutorConfig tunes the shard executor; see NewExecutor.
type ExecutorConfig = shardqueue.Config

// NewExecutor starts a shard executor with cfg. Zero fields take defaults.
func NewExecutor(cfg ExecutorConfig) Executor {
	return shardqueue.NewShardExecutor(cfg)
}
