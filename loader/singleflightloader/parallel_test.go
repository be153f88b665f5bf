package singleflightloader

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	itemservice "github.com/karupanerura/item-service"
)

// waitForReceivers blocks until n callers joined the current flight.
func waitForReceivers[T any](t *testing.T, l *SingleFlightLoader[T], n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		l.mu.Lock()
		joined := len(l.waitlist)
		l.mu.Unlock()
		if joined >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d receivers", n)
}

type record struct {
	ID   string
	Tags []string
}

func (r record) Clone() record {
	return record{ID: r.ID, Tags: append([]string(nil), r.Tags...)}
}

func TestLoad_Parallel(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var callCount atomic.Int32
	loader := NewSingleFlightLoader[record](itemservice.LoaderFunc[record](func(context.Context) ([]record, error) {
		callCount.Add(1)
		<-release
		return []record{{ID: "t1", Tags: []string{"sent"}}, {ID: "t2", Tags: []string{"received"}}}, nil
	}), WithBackgroundContextProvider[record](t.Context))

	const numGoroutines = 3
	var wg sync.WaitGroup
	results := make([][]record, numGoroutines)
	errs := make([]error, numGoroutines)
	for i := range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = loader.Load(t.Context())
		}()
	}
	waitForReceivers(t, loader, numGoroutines)
	close(release)
	wg.Wait()

	want := []record{{ID: "t1", Tags: []string{"sent"}}, {ID: "t2", Tags: []string{"received"}}}
	for i := range numGoroutines {
		if errs[i] != nil {
			t.Errorf("unexpected error: %v", errs[i])
		}
		if diff := cmp.Diff(want, results[i]); diff != "" {
			t.Errorf("unexpected items (-want +got):\n%s", diff)
		}
	}
	if n := callCount.Load(); n != 1 {
		t.Errorf("expected source to be called once, but it was called %d times", n)
	}

	// receivers must not share the backing arrays
	results[0][0].Tags[0] = "mutated"
	for i := 1; i < numGoroutines; i++ {
		if results[i][0].Tags[0] != "sent" {
			t.Errorf("receiver %d observed a mutation of another receiver", i)
		}
	}
}

func TestLoad_Parallel_Error(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var callCount atomic.Int32
	loader := NewSingleFlightLoader[string](itemservice.LoaderFunc[string](func(context.Context) ([]string, error) {
		callCount.Add(1)
		<-release
		return nil, context.DeadlineExceeded
	}))

	const numGoroutines = 2
	var wg sync.WaitGroup
	errs := make([]error, numGoroutines)
	for i := range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = loader.Load(t.Context())
		}()
	}
	waitForReceivers(t, loader, numGoroutines)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != context.DeadlineExceeded {
			t.Errorf("receiver %d: unexpected error: %v", i, err)
		}
	}
	if n := callCount.Load(); n != 1 {
		t.Errorf("expected source to be called once, but it was called %d times", n)
	}
}

func TestLoad_DetachedReceiver(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	loader := NewSingleFlightLoader[string](itemservice.LoaderFunc[string](func(context.Context) ([]string, error) {
		<-release
		return []string{"t1"}, nil
	}))

	ctx, cancel := context.WithCancel(t.Context())
	detached := make(chan error, 1)
	go func() {
		_, err := loader.Load(ctx)
		detached <- err
	}()
	waitForReceivers(t, loader, 1)

	var (
		items []string
		err   error
		done  = make(chan struct{})
	)
	go func() {
		defer close(done)
		items, err = loader.Load(t.Context())
	}()
	waitForReceivers(t, loader, 2)

	cancel()
	if err := <-detached; err != context.Canceled {
		t.Errorf("expected context.Canceled for the detached receiver, got %v", err)
	}

	close(release)
	<-done
	if err != nil {
		t.Fatalf("the shared call must not be aborted, got %v", err)
	}
	if diff := cmp.Diff([]string{"t1"}, items); diff != "" {
		t.Errorf("unexpected items (-want +got):\n%s", diff)
	}
}
