// Package remote loads the raw items from the HTTP API.
//
// The client never retries on its own. Retrying is left to itemservice.Retry so that every
// attempt, including the cache write after it, is visible to the composition.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	itemservice "github.com/karupanerura/item-service"
	"github.com/karupanerura/item-service/model"
)

// Paths of the API endpoints.
const (
	FriendsPath   = "/friends"
	CardsPath     = "/cards"
	TransfersPath = "/transfers"
)

// ErrInvalidBody is returned when a 2xx response does not carry a JSON list.
var ErrInvalidBody = errors.New("invalid response body")

// StatusError is returned when the API responds with a non-2xx status.
type StatusError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GET %s: %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("GET %s: %d %s: %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// errorBody is the JSON body of an error response.
type errorBody struct {
	Message string `json:"message"`
}

// Client is a client of the items API.
type Client struct {
	http *resty.Client
}

// NewClient creates a new client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	for _, o := range opts {
		o.apply(rc)
	}
	return &Client{http: rc}
}

// Friends returns a loader of the friends of the current user.
func (c *Client) Friends() itemservice.Loader[model.Friend] {
	return loader[model.Friend](c, FriendsPath)
}

// Cards returns a loader of the cards of the current user.
func (c *Client) Cards() itemservice.Loader[model.Card] {
	return loader[model.Card](c, CardsPath)
}

// Transfers returns a loader of the transfers the current user sent or received.
func (c *Client) Transfers() itemservice.Loader[model.Transfer] {
	return loader[model.Transfer](c, TransfersPath)
}

func loader[T any](c *Client, path string) itemservice.LoaderFunc[T] {
	return func(ctx context.Context) ([]T, error) {
		return get[T](ctx, c, path)
	}
}

func get[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	items := []T{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&items).
		SetError(&errorBody{}).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		statusErr := &StatusError{Path: path, StatusCode: resp.StatusCode()}
		if body, ok := resp.Error().(*errorBody); ok && body != nil {
			statusErr.Message = body.Message
		}
		return nil, statusErr
	}
	// resty decodes the result only for JSON content types and leaves items empty otherwise
	if ct := resp.Header().Get("Content-Type"); !resty.IsJSONType(ct) {
		return nil, fmt.Errorf("GET %s: %w: content type %q", path, ErrInvalidBody, ct)
	}
	if len(bytes.TrimSpace(resp.Body())) == 0 {
		return nil, fmt.Errorf("GET %s: %w: empty body", path, ErrInvalidBody)
	}
	if items == nil {
		// a "null" body
		items = []T{}
	}
	return items, nil
}
