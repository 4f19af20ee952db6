package browser

import (
	"context"
	"errors"
)

var (
	// ErrChallenge: the site put up a verification challenge. Never retried
	// automatically; the run stops and a human takes over.
	ErrChallenge = errors.New("browser: challenge screen detected")

	// ErrNavTimeout: the page did not load in time. Transient; callers retry
	// a bounded number of times.
	ErrNavTimeout = errors.New("browser: navigation timed out")

	// ErrUnreachable: no debuggable Chrome at the configured CDP URL.
	ErrUnreachable = errors.New("browser: chrome not reachable over CDP")
)

// Controller is the one surface the pipeline consumes from the browser.
// A single page is driven at a time; none of the methods are safe for
// concurrent use.
type Controller interface {
	// Navigate loads a URL and waits for the document. Returns ErrNavTimeout
	// or ErrChallenge as appropriate.
	Navigate(ctx context.Context, url string) error
	// ReadText returns the rendered text of the first node matching sel.
	ReadText(ctx context.Context, sel string) (string, error)
	// ReadHTML returns the outer HTML of the first node matching sel.
	ReadHTML(ctx context.Context, sel string) (string, error)
	CurrentURL(ctx context.Context) (string, error)
	Close() error
}
