package singleflightloader

import (
	"context"
	"errors"
	"sync"

	itemservice "github.com/karupanerura/item-service"
	"github.com/karupanerura/item-service/internal/panicutil"
)

// ErrGoexit is returned to the callers of a flight whose source called runtime.Goexit.
var ErrGoexit = errors.New("source called runtime.Goexit")

// SingleFlightLoader is an itemservice.Loader that shares one in-flight upstream call
// among all the callers of Load that arrive while it is running.
type SingleFlightLoader[T any] struct {
	source  itemservice.Loader[T]
	cloner  itemservice.ItemsCloner[T]
	context func() context.Context

	mu       sync.Mutex
	waitlist []chan result[T]
}

var _ itemservice.Loader[struct{}] = (*SingleFlightLoader[struct{}])(nil)

// NewSingleFlightLoader creates a new SingleFlightLoader instance.
func NewSingleFlightLoader[T any](source itemservice.Loader[T], opts ...Option[T]) *SingleFlightLoader[T] {
	loader := &SingleFlightLoader[T]{
		source:  source,
		context: context.Background,
	}
	for _, o := range opts {
		o.apply(loader)
	}
	if loader.cloner == nil {
		loader.cloner = itemservice.DefaultItemsCloner[T]()
	}
	return loader
}

type result[T any] struct {
	items []T
	err   error
}

// Load joins the in-flight upstream call, or starts one if none is running, and returns its result.
// The upstream call runs with the background context of the loader, so a canceled ctx only
// detaches this caller and never aborts the call shared with the others.
// If the source calls runtime.Goexit, every caller gets ErrGoexit.
func (l *SingleFlightLoader[T]) Load(ctx context.Context) ([]T, error) {
	ch := l.join()
	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return r.items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// join registers a receiver and starts the upstream call for the first one.
func (l *SingleFlightLoader[T]) join() chan result[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	// buffered so that the sender never blocks on a detached receiver
	ch := make(chan result[T], 1)
	l.waitlist = append(l.waitlist, ch)
	if len(l.waitlist) == 1 {
		go l.fly(l.context())
	}
	return ch
}

func (l *SingleFlightLoader[T]) fly(ctx context.Context) {
	var items []T
	err := panicutil.Call(func() (err error) {
		items, err = l.source.Load(ctx)
		return
	}, func() {
		l.land(result[T]{err: ErrGoexit})
	})
	if err != nil {
		l.land(result[T]{err: err})
		return
	}
	l.land(result[T]{items: items})
}

// land delivers the result to every receiver and clears the waitlist for the next flight.
func (l *SingleFlightLoader[T]) land(r result[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, ch := range l.waitlist {
		if i != 0 && r.err == nil && r.items != nil {
			// only the first receiver gets the slice as is
			ch <- result[T]{items: l.cloner.CloneItems(r.items)}
		} else {
			ch <- r
		}
		close(ch)
	}
	l.waitlist = nil
}
