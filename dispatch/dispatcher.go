package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/karupanerura/item-service/internal/panicutil"
)

// ErrQueueClosed is reported for the tasks dispatched to a closed Queue.
var ErrQueueClosed = errors.New("dispatch queue is closed")

// Dispatcher runs tasks on a delivery context.
type Dispatcher interface {
	Dispatch(ctx context.Context, task func(context.Context))
}

// DispatcherFunc is a function type that implements the Dispatcher interface.
type DispatcherFunc func(context.Context, func(context.Context))

// Dispatch calls the function.
func (f DispatcherFunc) Dispatch(ctx context.Context, task func(context.Context)) {
	f(ctx, task)
}

// Immediate runs every task inline on the calling goroutine.
type Immediate struct{}

var _ Dispatcher = Immediate{}

// Dispatch runs the task.
func (Immediate) Dispatch(ctx context.Context, task func(context.Context)) {
	task(ctx)
}

type onQueueKey struct{}

type pendingTask struct {
	ctx  context.Context
	task func(context.Context)
}

// Queue is a serial delivery context drained by the goroutine that calls Run.
type Queue struct {
	onPanic func(error)
	onDrop  func(error)

	mu      sync.Mutex
	pending []pendingTask
	closed  bool
	wake    chan struct{}
}

var _ Dispatcher = (*Queue)(nil)

// NewQueue creates a new Queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o.apply(q)
	}
	return q
}

// OnQueue reports whether ctx belongs to a task running on the queue.
func (q *Queue) OnQueue(ctx context.Context) bool {
	current, _ := ctx.Value(onQueueKey{}).(*Queue)
	return current == q
}

// Dispatch schedules the task to run on the queue.
// If ctx belongs to a task already running on the queue, the task runs inline instead.
// Tasks dispatched after Close are dropped and reported with ErrQueueClosed.
func (q *Queue) Dispatch(ctx context.Context, task func(context.Context)) {
	if q.OnQueue(ctx) {
		task(ctx)
		return
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.drop(ErrQueueClosed)
		return
	}
	q.pending = append(q.pending, pendingTask{ctx: ctx, task: task})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Run runs the dispatched tasks one at a time on the calling goroutine.
// It returns nil once the queue is closed and every task dispatched before was run,
// or the error of ctx when it is done first, in which case the queue is closed and
// the tasks not run yet are dropped.
// Run must not be called concurrently.
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.mu.Lock()
		tasks, closed := q.pending, q.closed
		q.pending = nil
		q.mu.Unlock()

		for _, t := range tasks {
			if err := ctx.Err(); err != nil {
				q.abort(t)
				continue
			}
			q.run(t)
		}
		if len(tasks) != 0 {
			continue
		}
		if closed {
			return nil
		}

		select {
		case <-q.wake:
		case <-ctx.Done():
			q.Close()
			q.mu.Lock()
			tasks := q.pending
			q.pending = nil
			q.mu.Unlock()
			for _, t := range tasks {
				q.abort(t)
			}
			return ctx.Err()
		}
	}
}

// Close stops the queue from accepting tasks.
// The tasks dispatched before are still run by Run.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run(t pendingTask) {
	ctx := context.WithValue(t.ctx, onQueueKey{}, q)
	panicutil.Guard(func() {
		t.task(ctx)
	}, q.onPanic)
}

func (q *Queue) abort(pendingTask) {
	q.drop(ErrQueueClosed)
}

func (q *Queue) drop(err error) {
	if q.onDrop != nil {
		q.onDrop(err)
	}
}

// offQueue returns a context that does not belong to any queue.
func offQueue(ctx context.Context) context.Context {
	if _, ok := ctx.Value(onQueueKey{}).(*Queue); !ok {
		return ctx
	}
	return context.WithValue(ctx, onQueueKey{}, (*Queue)(nil))
}
