// Package netx holds small outbound HTTP helpers.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxSnippet bounds how much of an upstream body is quoted in errors.
const maxSnippet = 200

// maxBody caps how much of an upstream response GetBody will buffer.
var maxBody int64 = 4 << 20

// ErrBodyTooLarge is returned when a response exceeds maxBody bytes.
var ErrBodyTooLarge = errors.New("upstream response body too large")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream HTTP %s: %s", e.Status, e.Body)
}

// Snippet truncates b for inclusion in error messages.
func Snippet(b []byte) string {
	if len(b) > maxSnippet {
		b = b[:maxSnippet]
	}
	return string(b)
}

// GetBody performs a GET and returns the full response body. Non-2xx answers
// are returned as *StatusError, bodies over maxBody as ErrBodyTooLarge.
func GetBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: Snippet(b)}
	}
	if int64(len(b)) > maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, maxBody)
	}
	return b, nil
}
