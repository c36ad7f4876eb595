// Package shardqueue provides a lightweight sharded work-queue that guarantees
// FIFO order *per key* while allowing parallelism across shards. The client
// keys writes by index name, so writes to one index land in submission order.
//
// **Contract**: Callers **must not** invoke Submit concurrently for the *same*
// key. FIFO ordering relies on that external serialisation.
package shardqueue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-search/client/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	key string
	job Job
}

// ShardExecutor executes Jobs on worker goroutines partitioned by a stable hash
// of the key. FIFO ordering is preserved within a shard; jobs with different
// keys may run in parallel.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards

	life     context.Context // cancelled in Stop()
	shutdown context.CancelFunc
	closed   uint32 // 0 → running, 1 → closed

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
// Zero-valued Config fields take their defaults.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()

	life, shutdown := context.WithCancel(context.Background())
	p := &ShardExecutor{
		cfg:      cfg,
		queues:   make([]chan queuedJob, cfg.Shards),
		life:     life,
		shutdown: shutdown,
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key.
//
//   - Returns nil on success.
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is full
//     after EnqueueTimeout elapses.
//   - Returns ctx.Err() if the caller-provided context is cancelled first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.life.Done():
		return ErrExecutorClosed
	default:
	}

	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- queuedJob{ctx: ctx, key: key, job: job}:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil

	case <-p.life.Done():
		return ErrExecutorClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{
			Shard:    shard,
			Length:   len(ch),
			Capacity: cap(ch),
		}
	}
}

// Barrier enqueues a no-op job on the shard for key and waits until it runs,
// ensuring all previously submitted jobs for that key have completed.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := p.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop signals every worker to finish draining its queue, waits for them to
// terminate, and then returns. Jobs waiting for a retry are abandoned and
// reported to the error handler. It is idempotent and safe for concurrent use.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}

	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping executor")
	p.shutdown()
	p.wg.Wait()
	log.Debug().Msg("shardqueue: executor stopped, all queues drained")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job != nil {
				p.execute(qj, label)
			}
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.life.Done():
			p.drain(idx, ch)
			queueDepth.WithLabelValues(label).Set(0)
			return
		}
	}
}

// execute runs qj, retrying recoverable failures with exponential backoff.
func (p *ShardExecutor) execute(qj queuedJob, label string) {
	// Honour caller context so a cancelled job doesn't stall the shard.
	if err := qj.ctx.Err(); err != nil {
		p.safeHandleError(qj.key, err)
		return
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0

	// Waits between attempts end early on Stop or caller cancellation.
	waitCtx, cancel := context.WithCancel(qj.ctx)
	defer cancel()
	stop := context.AfterFunc(p.life, cancel)
	defer stop()

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.cfg.MaxAttempts-1)), waitCtx)
	attempt := func() error {
		start := time.Now()
		err := safeRun(qj.ctx, qj.job)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if err == nil {
			return nil
		}
		if _, panicked := err.(*PanicError); panicked || errors.IsIrrecoverable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		retriesTotal.WithLabelValues(label).Inc()
		log.Debug().Err(err).Str("key", qj.key).Dur("wait", wait).Msg("shardqueue: retrying job")
	}

	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		p.safeHandleError(qj.key, err)
	}
}

// drain runs whatever is left in ch once, preserving FIFO, without retries.
func (p *ShardExecutor) drain(idx int, ch <-chan queuedJob) {
	drained := 0
	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}
			if err := safeRun(qj.ctx, qj.job); err != nil {
				p.safeHandleError(qj.key, err)
			}
			drained++
		default:
			if drained > 0 {
				log.Debug().Int("worker", idx).Int("jobs", drained).Msg("shardqueue: drained queue")
			}
			return
		}
	}
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: job panic")
			err = &PanicError{Value: r}
		}
	}()
	return job.Run(ctx)
}

func (p *ShardExecutor) safeHandleError(key string, err error) {
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	// Guard against panics in the user-supplied handler.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("key", key).Msg("shardqueue: error handler panic")
		}
	}()
	p.cfg.ErrorHandler(key, err)
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
