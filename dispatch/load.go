package dispatch

import (
	"context"

	itemservice "github.com/karupanerura/item-service"
)

// Result is the outcome of a single load: either the items or the error.
type Result struct {
	Items []itemservice.ItemView
	Err   error
}

// Load runs the service on the calling goroutine and delivers its result on the dispatcher.
// When the caller is already running on the dispatcher's delivery context, the completion
// runs inline before Load returns.
func Load(ctx context.Context, svc itemservice.ItemService, d Dispatcher, completion func(context.Context, Result)) {
	items, err := svc.LoadItems(ctx)
	d.Dispatch(ctx, func(ctx context.Context) {
		completion(ctx, Result{Items: items, Err: err})
	})
}

// LoadAsync runs the service on a new goroutine and delivers its result on the dispatcher.
// The completion is called at most once: it is not called when the dispatcher drops it, as a
// Queue does after Close or once the context of Run is done, and the drop is reported to the
// queue's drop handler. The load chain is never canceled by LoadAsync.
func LoadAsync(ctx context.Context, svc itemservice.ItemService, d Dispatcher, completion func(context.Context, Result)) {
	ctx = offQueue(ctx)
	go Load(ctx, svc, d, completion)
}
