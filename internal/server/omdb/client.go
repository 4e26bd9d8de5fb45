// Package omdb is a thin client for the OMDb movie catalog API. Responses are
// passed through to callers as raw JSON.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/filmvault/internal/netx"
)

var (
	ErrUpstream = errors.New("catalog upstream error")
	ErrNoAPIKey = errors.New("catalog API key is not configured")
)

// Catalog is what the HTTP layer needs from the catalog.
type Catalog interface {
	Search(ctx context.Context, title string) (json.RawMessage, error)
	ByID(ctx context.Context, imdbID string) (json.RawMessage, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Search looks titles up by name (OMDb "s" parameter).
func (c *Client) Search(ctx context.Context, title string) (json.RawMessage, error) {
	return c.get(ctx, "s", title)
}

// ByID fetches one title by IMDb id (OMDb "i" parameter).
func (c *Client) ByID(ctx context.Context, imdbID string) (json.RawMessage, error) {
	return c.get(ctx, "i", imdbID)
}

// envelope is the part of every OMDb answer that signals failure.
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (c *Client) get(ctx context.Context, param, value string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base url: %w", ErrUpstream, err)
	}
	q := u.Query()
	q.Set(param, strings.TrimSpace(value))
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	body, err := netx.GetBody(ctx, c.http, u.String())
	if err != nil {
		var se *netx.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		// url.Error would echo the api key back to the caller.
		return nil, fmt.Errorf("%w: request failed: %w", ErrUpstream, unwrapURLError(err))
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrUpstream)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: non-JSON response: %s", ErrUpstream, netx.Snippet(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Response == "False" {
		msg := env.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, msg)
	}

	return json.RawMessage(body), nil
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
