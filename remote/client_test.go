package remote_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/item-service/model"
	"github.com/karupanerura/item-service/remote"
	"github.com/shopspring/decimal"
)

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func newServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc("GET "+path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFriends(t *testing.T) {
	t.Parallel()

	srv := newServer(t, map[string]http.HandlerFunc{
		remote.FriendsPath: func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("X-User-ID"); got != "alice" {
				t.Errorf("unexpected user header: %q", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("unexpected authorization header: %q", got)
			}
			jsonHandler(http.StatusOK, []map[string]string{
				{"id": "1", "name": "Bob", "phone": "+1 555 0100"},
				{"id": "2", "name": "Carol", "phone": "+1 555 0101"},
			})(w, r)
		},
	})

	c := remote.NewClient(srv.URL, remote.WithUser("alice"), remote.WithToken("secret"))
	got, err := c.Friends().Load(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Friend{
		{ID: "1", Name: "Bob", Phone: "+1 555 0100"},
		{ID: "2", Name: "Carol", Phone: "+1 555 0101"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("friends mismatch (-want +got):\n%s", diff)
	}
}

func TestCards(t *testing.T) {
	t.Parallel()

	srv := newServer(t, map[string]http.HandlerFunc{
		remote.CardsPath: jsonHandler(http.StatusOK, []model.Card{}),
	})

	got, err := remote.NewClient(srv.URL).Cards().Load(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty list, got %#v", got)
	}
}

func TestTransfers(t *testing.T) {
	t.Parallel()

	srv := newServer(t, map[string]http.HandlerFunc{
		remote.TransfersPath: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":"t1","description":"Rent","amount":"1250.50","currency":"EUR","sender":"alice","recipient":"bob","date":"2025-01-02T10:30:00Z","is_sender":true},
				{"id":"t2","description":"Lunch","amount":12.5,"currency":"EUR","sender":"bob","recipient":"alice","date":"2025-01-03T12:00:00Z","is_sender":false}
			]`))
		},
	})

	got, err := remote.NewClient(srv.URL).Transfers().Load(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Transfer{
		{
			ID: "t1", Description: "Rent", Amount: decimal.RequireFromString("1250.50"), Currency: "EUR",
			Sender: "alice", Recipient: "bob", Date: time.Date(2025, time.January, 2, 10, 30, 0, 0, time.UTC), IsSender: true,
		},
		{
			ID: "t2", Description: "Lunch", Amount: decimal.RequireFromString("12.5"), Currency: "EUR",
			Sender: "bob", Recipient: "alice", Date: time.Date(2025, time.January, 3, 12, 0, 0, 0, time.UTC),
		},
	}
	opt := cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })
	if diff := cmp.Diff(want, got, opt); diff != "" {
		t.Errorf("transfers mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "json error body",
			handler:     jsonHandler(http.StatusServiceUnavailable, map[string]string{"message": "maintenance"}),
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "maintenance",
		},
		{
			name: "plain error body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newServer(t, map[string]http.HandlerFunc{remote.FriendsPath: tt.handler})
			items, err := remote.NewClient(srv.URL).Friends().Load(t.Context())
			if items != nil {
				t.Errorf("expected no items, got %v", items)
			}
			var statusErr *remote.StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected *remote.StatusError, got %T: %v", err, err)
			}
			if statusErr.StatusCode != tt.wantStatus || statusErr.Message != tt.wantMessage || statusErr.Path != remote.FriendsPath {
				t.Errorf("unexpected status error: %+v", statusErr)
			}
		})
	}
}

func TestInvalidBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "html page",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html>captive portal</html>"))
			},
			wantErr: remote.ErrInvalidBody,
		},
		{
			name: "plain text",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte("ok"))
			},
			wantErr: remote.ErrInvalidBody,
		},
		{
			name: "empty json body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
			},
			wantErr: remote.ErrInvalidBody,
		},
		{
			name: "broken json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[{"id":`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newServer(t, map[string]http.HandlerFunc{remote.FriendsPath: tt.handler})
			items, err := remote.NewClient(srv.URL).Friends().Load(t.Context())
			if err == nil {
				t.Fatalf("expected an error, got %d items", len(items))
			}
			if items != nil {
				t.Errorf("expected no items, got %v", items)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNoTransportRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newServer(t, map[string]http.HandlerFunc{
		remote.FriendsPath: func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		},
	})

	if _, err := remote.NewClient(srv.URL).Friends().Load(t.Context()); err == nil {
		t.Fatal("expected an error")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}
}

func TestNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := remote.NewClient(url, remote.WithTimeout(time.Second)).Cards().Load(t.Context())
	if err == nil {
		t.Fatal("expected an error")
	}
	var statusErr *remote.StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("a network error must not be a status error: %v", err)
	}
}
