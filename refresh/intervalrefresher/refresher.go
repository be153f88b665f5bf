// Package intervalrefresher keeps a cache warm by refreshing it at a fixed interval.
package intervalrefresher

import (
	"context"
	"time"

	itemservice "github.com/karupanerura/item-service"
)

// Refresher refreshes a cache.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc is a function type that implements the Refresher interface.
type RefresherFunc func(context.Context) error

// Refresh calls the function.
func (f RefresherFunc) Refresh(ctx context.Context) error {
	return f(ctx)
}

// LoaderRefresher refreshes by loading the items and dropping them.
// It is meant for loaders that save what they load, such as writethrough.Loader.
func LoaderRefresher[T any](loader itemservice.Loader[T]) Refresher {
	return RefresherFunc(func(ctx context.Context) error {
		_, err := loader.Load(ctx)
		return err
	})
}

// IntervalRefresher is a background refresher that calls a Refresher at a fixed interval.
type IntervalRefresher struct {
	refresher         Refresher
	interval          time.Duration
	onBackgroundError func(error)
	onRefreshed       func(time.Time)
}

// NewIntervalRefresher creates a new IntervalRefresher.
// The errors of the background refreshes are passed to onBackgroundError.
func NewIntervalRefresher(refresher Refresher, interval time.Duration, onBackgroundError func(error)) *IntervalRefresher {
	if interval <= 0 {
		panic("interval must be positive")
	}
	return &IntervalRefresher{
		refresher:         refresher,
		interval:          interval,
		onBackgroundError: onBackgroundError,
	}
}

// OnRefreshed sets the function called with the time of every successful refresh.
func (r *IntervalRefresher) OnRefreshed(f func(time.Time)) *IntervalRefresher {
	r.onRefreshed = f
	return r
}

// LaunchBackgroundRefresher starts the refresher on a new goroutine.
// It can be stopped by canceling the context.
func (r *IntervalRefresher) LaunchBackgroundRefresher(ctx context.Context) {
	go r.Run(ctx)
}

// Run refreshes right away and then at every interval until ctx is done.
func (r *IntervalRefresher) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *IntervalRefresher) refresh(ctx context.Context) {
	if err := r.refresher.Refresh(ctx); err != nil {
		if r.onBackgroundError != nil {
			r.onBackgroundError(err)
		}
		return
	}
	if r.onRefreshed != nil {
		r.onRefreshed(time.Now())
	}
}
