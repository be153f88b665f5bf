// Package lists wires the item lists of the application from the loaders of the API and the cache.
package lists

import (
	"errors"
	"fmt"

	itemservice "github.com/karupanerura/item-service"
	"github.com/karupanerura/item-service/loader/singleflightloader"
	"github.com/karupanerura/item-service/loader/writethrough"
	"github.com/karupanerura/item-service/metrics"
	"github.com/karupanerura/item-service/model"
	"github.com/karupanerura/item-service/source"
	"github.com/karupanerura/item-service/storage"
	"github.com/karupanerura/item-service/view"
)

// Names of the lists.
const (
	Friends  = "friends"
	Sent     = "sent"
	Received = "received"
	Cards    = "cards"
)

// TransfersUpstream is the metrics name of the transfers API calls shared by the sent and
// received lists.
const TransfersUpstream = "transfers"

// Retry counts of the lists. The cards list is never retried.
const (
	FriendsRetries   = 2
	TransfersRetries = 1
)

// ErrUnknownList is returned for a list name that is not wired.
var ErrUnknownList = errors.New("unknown list")

// Names returns the names of all the lists in display order.
func Names() []string {
	return []string{Friends, Sent, Received, Cards}
}

// Handlers receive the raw item of a selected view.
// A nil handler ignores the selection.
type Handlers struct {
	Friend   func(model.Friend)
	Card     func(model.Card)
	Transfer func(model.Transfer)
}

// Deps are the collaborators the lists are wired from.
type Deps struct {
	Friends   itemservice.Loader[model.Friend]
	Cards     itemservice.Loader[model.Card]
	Transfers itemservice.Loader[model.Transfer]

	// FriendsCache keeps the friends of the current user.
	// It is written only for premium users. If nil, nothing is cached.
	FriendsCache itemservice.Cache[model.Friend]

	// Premium enables the friends cache.
	Premium bool

	Handlers Handlers

	// OnCacheError is called with the cache errors that did not fail a load.
	OnCacheError func(error)

	// Metrics records every load of every list when set.
	Metrics *metrics.Collector
}

// Lists are the composed item services.
type Lists struct {
	Friends  itemservice.ItemService
	Sent     itemservice.ItemService
	Received itemservice.ItemService
	Cards    itemservice.ItemService

	// FriendsLoader loads the friends from the API and writes them through to the cache.
	// It is what a background refresher keeps warm.
	FriendsLoader itemservice.Loader[model.Friend]
}

// Get returns the list of the given name.
func (l *Lists) Get(name string) (itemservice.ItemService, error) {
	switch name {
	case Friends:
		return l.Friends, nil
	case Sent:
		return l.Sent, nil
	case Received:
		return l.Received, nil
	case Cards:
		return l.Cards, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownList, name)
	}
}

// Wire composes the lists:
//   - friends of premium users: the API with writes to the cache, retried twice, then the cache
//   - friends of other users: the API retried twice, the cache is never written nor read
//   - sent and received transfers: one shared transfers API call filtered by direction, retried once
//   - cards: the API as it is
func Wire(d Deps) *Lists {
	cache := d.FriendsCache
	if cache == nil {
		cache = &storage.NullCache[model.Friend]{}
	}
	cache = &storage.SilentErrorCache[model.Friend]{
		Cache:   cache,
		OnError: d.cacheErrorReporter(Friends),
	}

	writes := itemservice.Cache[model.Friend](&storage.NullCache[model.Friend]{Cache: cache})
	if d.Premium {
		writes = cache
	}
	friendsLoader := writethrough.NewLoader(writes, d.Friends)
	friends := itemservice.Retry(&source.APIAdapter[model.Friend]{
		Loader: friendsLoader,
		View:   view.Friend,
		Select: d.Handlers.Friend,
	}, FriendsRetries)
	if d.Premium {
		friends = itemservice.Fallback(friends, &source.CacheAdapter[model.Friend]{
			Cache:  cache,
			View:   view.Friend,
			Select: d.Handlers.Friend,
		})
	}

	transfersUpstream := d.Transfers
	if d.Metrics != nil {
		transfersUpstream = metrics.InstrumentLoader(d.Metrics, TransfersUpstream, transfersUpstream)
	}
	transfers := singleflightloader.NewSingleFlightLoader(transfersUpstream)
	sent := itemservice.Retry(&source.FilterAdapter[model.Transfer]{
		Loader: transfers,
		Keep:   model.IsSent,
		View:   view.Transfer(true),
		Select: d.Handlers.Transfer,
	}, TransfersRetries)
	received := itemservice.Retry(&source.FilterAdapter[model.Transfer]{
		Loader: transfers,
		Keep:   model.IsReceived,
		View:   view.Transfer(false),
		Select: d.Handlers.Transfer,
	}, TransfersRetries)

	cards := itemservice.ItemService(&source.APIAdapter[model.Card]{
		Loader: d.Cards,
		View:   view.Card,
		Select: d.Handlers.Card,
	})

	l := &Lists{
		Friends:       friends,
		Sent:          sent,
		Received:      received,
		Cards:         cards,
		FriendsLoader: friendsLoader,
	}
	if d.Metrics != nil {
		l.Friends = d.Metrics.Instrument(Friends, l.Friends)
		l.Sent = d.Metrics.Instrument(Sent, l.Sent)
		l.Received = d.Metrics.Instrument(Received, l.Received)
		l.Cards = d.Metrics.Instrument(Cards, l.Cards)
	}
	return l
}

func (d Deps) cacheErrorReporter(list string) func(error) {
	return func(err error) {
		if d.Metrics != nil {
			d.Metrics.RecordCacheError(list)
		}
		if d.OnCacheError != nil {
			d.OnCacheError(fmt.Errorf("%s: %w", list, err))
		}
	}
}
