package source_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	itemservice "github.com/karupanerura/item-service"
	"github.com/karupanerura/item-service/source"
	"github.com/karupanerura/item-service/storage"
)

type transfer struct {
	ID       string
	IsSender bool
}

func titleView[T any](title func(T) string) source.ViewFunc[T] {
	return func(item T, selection func()) itemservice.ItemView {
		return itemservice.ItemView{Title: title(item), Select: selection}
	}
}

var (
	stringView   = titleView(func(s string) string { return s })
	transferView = titleView(func(t transfer) string { return t.ID })
	ignoreSelect = cmpopts.IgnoreFields(itemservice.ItemView{}, "Select")
)

func staticLoader[T any](items []T, err error) itemservice.LoaderFunc[T] {
	return func(context.Context) ([]T, error) {
		return items, err
	}
}

func TestAPIAdapter(t *testing.T) {
	t.Parallel()

	t.Run("maps items in order", func(t *testing.T) {
		t.Parallel()

		a := &source.APIAdapter[string]{
			Loader: staticLoader([]string{"f1", "f2"}, nil),
			View:   stringView,
		}
		got, err := a.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []itemservice.ItemView{{Title: "f1"}, {Title: "f2"}}
		if diff := cmp.Diff(want, got, ignoreSelect); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty list is a success", func(t *testing.T) {
		t.Parallel()

		a := &source.APIAdapter[string]{
			Loader: staticLoader([]string(nil), nil),
			View:   stringView,
		}
		got, err := a.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty list, got %#v", got)
		}
	})

	t.Run("forwards selection with the raw item", func(t *testing.T) {
		t.Parallel()

		var selected []string
		a := &source.APIAdapter[string]{
			Loader: staticLoader([]string{"f1", "f2", "f3"}, nil),
			View:   stringView,
			Select: func(item string) {
				selected = append(selected, item)
			},
		}
		got, err := a.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got[2].Select()
		got[0].Select()
		if diff := cmp.Diff([]string{"f3", "f1"}, selected); diff != "" {
			t.Errorf("selection mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil Select is ignored", func(t *testing.T) {
		t.Parallel()

		a := &source.APIAdapter[string]{
			Loader: staticLoader([]string{"f1"}, nil),
			View:   stringView,
		}
		got, err := a.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got[0].Select()
	})

	t.Run("returns error verbatim", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("api error")
		a := &source.APIAdapter[string]{
			Loader: staticLoader([]string{"ignored"}, expectedErr),
			View:   stringView,
		}
		got, err := a.LoadItems(t.Context())
		if err != expectedErr {
			t.Errorf("expected error: %v, got: %v", expectedErr, err)
		}
		if got != nil {
			t.Errorf("expected nil items, got %v", got)
		}
	})

	t.Run("idempotent without side effects", func(t *testing.T) {
		t.Parallel()

		a := &source.APIAdapter[string]{
			Loader: staticLoader([]string{"c1", "c2"}, nil),
			View:   stringView,
		}
		first, err := a.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := a.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(first, second, ignoreSelect); diff != "" {
			t.Errorf("results differ (-first +second):\n%s", diff)
		}
	})
}

func TestCacheAdapter(t *testing.T) {
	t.Parallel()

	t.Run("loads from cache", func(t *testing.T) {
		t.Parallel()

		cache := &storage.FunctionsCache[string]{
			LoadFunc: func(context.Context) ([]string, error) {
				return []string{"cached1", "cached2"}, nil
			},
		}
		var selected string
		a := &source.CacheAdapter[string]{
			Cache:  cache,
			View:   stringView,
			Select: func(s string) { selected = s },
		}
		got, err := a.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []itemservice.ItemView{{Title: "cached1"}, {Title: "cached2"}}
		if diff := cmp.Diff(want, got, ignoreSelect); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		got[1].Select()
		if selected != "cached2" {
			t.Errorf("expected cached2 to be selected, got %q", selected)
		}
	})

	t.Run("returns cache miss verbatim", func(t *testing.T) {
		t.Parallel()

		a := &source.CacheAdapter[string]{
			Cache: &storage.FunctionsCache[string]{
				LoadFunc: func(context.Context) ([]string, error) {
					return nil, storage.ErrNotFound
				},
			},
			View: stringView,
		}
		if _, err := a.LoadItems(t.Context()); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestFilterAdapter(t *testing.T) {
	t.Parallel()

	transfers := []transfer{
		{ID: "t1", IsSender: true},
		{ID: "t2", IsSender: false},
		{ID: "t3", IsSender: true},
		{ID: "t4", IsSender: false},
		{ID: "t5", IsSender: false},
	}
	sent := &source.FilterAdapter[transfer]{
		Loader: staticLoader(transfers, nil),
		Keep:   func(t transfer) bool { return t.IsSender },
		View:   transferView,
	}
	received := &source.FilterAdapter[transfer]{
		Loader: staticLoader(transfers, nil),
		Keep:   func(t transfer) bool { return !t.IsSender },
		View:   transferView,
	}

	t.Run("splits sent and received", func(t *testing.T) {
		t.Parallel()

		loader := staticLoader([]transfer{{ID: "t1", IsSender: true}, {ID: "t2", IsSender: false}}, nil)
		sentGot, err := (&source.FilterAdapter[transfer]{Loader: loader, Keep: func(t transfer) bool { return t.IsSender }, View: transferView}).LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		receivedGot, err := (&source.FilterAdapter[transfer]{Loader: loader, Keep: func(t transfer) bool { return !t.IsSender }, View: transferView}).LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]itemservice.ItemView{{Title: "t1"}}, sentGot, ignoreSelect); diff != "" {
			t.Errorf("sent mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]itemservice.ItemView{{Title: "t2"}}, receivedGot, ignoreSelect); diff != "" {
			t.Errorf("received mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("partitions the upstream list", func(t *testing.T) {
		t.Parallel()

		sentGot, err := sent.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		receivedGot, err := received.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sentIDs := make([]string, len(sentGot))
		for i, v := range sentGot {
			sentIDs[i] = v.Title
		}
		receivedIDs := make([]string, len(receivedGot))
		for i, v := range receivedGot {
			receivedIDs[i] = v.Title
		}
		if diff := cmp.Diff([]string{"t1", "t3"}, sentIDs); diff != "" {
			t.Errorf("sent mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"t2", "t4", "t5"}, receivedIDs); diff != "" {
			t.Errorf("received mismatch (-want +got):\n%s", diff)
		}

		all := append(slices.Clone(sentIDs), receivedIDs...)
		slices.Sort(all)
		if diff := cmp.Diff([]string{"t1", "t2", "t3", "t4", "t5"}, all); diff != "" {
			t.Errorf("every item must be in exactly one list (-want +got):\n%s", diff)
		}
	})

	t.Run("selection forwards the raw transfer", func(t *testing.T) {
		t.Parallel()

		var selected transfer
		a := &source.FilterAdapter[transfer]{
			Loader: staticLoader(transfers, nil),
			Keep:   func(t transfer) bool { return !t.IsSender },
			View:   transferView,
			Select: func(t transfer) { selected = t },
		}
		got, err := a.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got[1].Select()
		if selected != (transfer{ID: "t4"}) {
			t.Errorf("unexpected selection: %+v", selected)
		}
	})

	t.Run("returns error verbatim", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("transfers error")
		a := &source.FilterAdapter[transfer]{
			Loader: staticLoader[transfer](nil, expectedErr),
			Keep:   func(t transfer) bool { return t.IsSender },
			View:   transferView,
		}
		if _, err := a.LoadItems(t.Context()); err != expectedErr {
			t.Errorf("expected error: %v, got: %v", expectedErr, err)
		}
	})
}

func TestLintService(t *testing.T) {
	t.Parallel()

	t.Run("passes valid results", func(t *testing.T) {
		t.Parallel()

		s := &source.LintService{Service: &source.APIAdapter[string]{
			Loader: staticLoader([]string{"f1"}, nil),
			View:   stringView,
		}}
		got, err := s.LoadItems(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 item, got %d", len(got))
		}
	})

	t.Run("passes errors", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("api error")
		s := &source.LintService{Service: itemservice.ItemServiceFunc(func(context.Context) ([]itemservice.ItemView, error) {
			return nil, expectedErr
		})}
		if _, err := s.LoadItems(t.Context()); err != expectedErr {
			t.Errorf("expected error: %v, got: %v", expectedErr, err)
		}
	})

	t.Run("panics on items with error", func(t *testing.T) {
		t.Parallel()

		s := &source.LintService{Service: itemservice.ItemServiceFunc(func(context.Context) ([]itemservice.ItemView, error) {
			return []itemservice.ItemView{}, errors.New("api error")
		})}
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic for items with error, but did not panic")
			}
		}()
		s.LoadItems(t.Context())
	})

	t.Run("panics on missing selection", func(t *testing.T) {
		t.Parallel()

		s := &source.LintService{Service: itemservice.ItemServiceFunc(func(context.Context) ([]itemservice.ItemView, error) {
			return []itemservice.ItemView{{Title: "no action"}}, nil
		})}
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic for missing selection, but did not panic")
			}
		}()
		s.LoadItems(t.Context())
	})
}
