package gdisp

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// queue feeds drawing requests to a single worker goroutine in the order
// they were posted. A slot is taken before a request is queued and given
// back once the worker has executed it, so at most depth requests are ever
// pending and producers block beyond that.
type queue struct {
	d       *Display
	msgs    chan message
	slots   *semaphore.Weighted
	timeout time.Duration
	dropped atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
}

func newQueue(d *Display, depth int, timeout time.Duration) *queue {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	q := &queue{
		d:       d,
		msgs:    make(chan message, depth),
		slots:   semaphore.NewWeighted(int64(depth)),
		timeout: timeout,
		ctx:     gctx,
		cancel:  cancel,
		g:       g,
	}
	g.Go(q.run)
	return q
}

// run executes messages until the queue is closed.
func (q *queue) run() error {
	for {
		select {
		case m := <-q.msgs:
			q.d.lock()
			q.d.exec(m)
			q.d.unlock()
			q.slots.Release(1)
		case <-q.ctx.Done():
			return nil
		}
	}
}

// post queues m, blocking while the queue is full. It
// reports false when the request was dropped because the submit timeout
// expired or the queue was closed.
func (q *queue) post(m message) bool {
	ctx := q.ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	if err := q.slots.Acquire(ctx, 1); err != nil {
		q.dropped.Add(1)
		q.d.logger().Warn("request dropped", "action", m.action, "err", err)
		return false
	}
	select {
	case q.msgs <- m:
		return true
	case <-q.ctx.Done():
		q.slots.Release(1)
		return false
	}
}

// busy reports whether requests are waiting. A request the worker has
// already taken but not finished is not counted.
func (q *queue) busy() bool {
	return len(q.msgs) > 0
}

// flush blocks until every request posted before it has been executed.
func (q *queue) flush() {
	m := message{action: actFlush, done: make(chan struct{})}
	if !q.post(m) {
		return
	}
	select {
	case <-m.done:
	case <-q.ctx.Done():
	}
}

// close drains the queue and stops the worker.
func (q *queue) close() {
	q.flush()
	q.cancel()
	_ = q.g.Wait()
}

// IsBusy reports whether asynchronous requests are still waiting to be
// drawn. It is always false for the other threading modes. The answer can
// be stale by the time it is returned; use Flush to wait.
func (d *Display) IsBusy() bool {
	if d.q == nil {
		return false
	}
	return d.q.busy()
}

// Flush waits until every request made before it has reached the driver.
// It returns immediately for the synchronous threading modes.
func (d *Display) Flush() {
	if d.q == nil || d.closed.Load() {
		return
	}
	d.q.flush()
}

// Dropped returns how many asynchronous requests were discarded because
// the submit timeout expired.
func (d *Display) Dropped() uint64 {
	if d.q == nil {
		return 0
	}
	return d.q.dropped.Load()
}
