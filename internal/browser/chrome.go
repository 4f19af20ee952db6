package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Chrome drives an operator-launched Chrome over the DevTools protocol.
// The operator starts Chrome with --remote-debugging-port and logs in by
// hand; the engine never touches credentials.
type Chrome struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	navTimeout  time.Duration
}

// NewRemote attaches to an existing Chrome at cdpURL. Failing here is a
// fatal setup fault: the run must never enter Running without a browser.
func NewRemote(parent context.Context, cdpURL string, navTimeout time.Duration) (*Chrome, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(parent, cdpURL)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	c := &Chrome{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		navTimeout:  navTimeout,
	}

	probe, cancel := context.WithTimeout(tabCtx, 10*time.Second)
	defer cancel()
	var ready bool
	if err := chromedp.Run(probe, chromedp.Evaluate(`true`, &ready)); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: %s (%v)", ErrUnreachable, cdpURL, err)
	}
	return c, nil
}

func (c *Chrome) Close() error {
	c.cancelTab()
	c.cancelAlloc()
	return nil
}

// run executes chromedp actions under the per-operation timeout while still
// honoring the caller's cancellation between units of work.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(opCtx, actions...) }()

	select {
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	err := c.run(ctx, c.navTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrNavTimeout
		}
		return err
	}
	if c.challenged(ctx) {
		return ErrChallenge
	}
	return nil
}

// challenged checks for checkpoint pages and captcha iframes.
func (c *Chrome) challenged(ctx context.Context) bool {
	var hit bool
	err := c.run(ctx, 5*time.Second, chromedp.Evaluate(`(() => {
		const href = location.href || "";
		if (href.includes("/checkpoint/") || href.includes("/authwall")) return true;
		return document.querySelectorAll('iframe[src*="captcha"], iframe[src*="challenge"]').length > 0;
	})()`, &hit))
	return err == nil && hit
}

func (c *Chrome) ReadText(ctx context.Context, sel string) (string, error) {
	var out string
	err := c.run(ctx, c.navTimeout, chromedp.Text(sel, &out, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return "", ErrNavTimeout
	}
	return out, err
}

func (c *Chrome) ReadHTML(ctx context.Context, sel string) (string, error) {
	var out string
	err := c.run(ctx, c.navTimeout, chromedp.OuterHTML(sel, &out, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return "", ErrNavTimeout
	}
	return out, err
}

func (c *Chrome) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := c.run(ctx, 5*time.Second, chromedp.Location(&u))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(u), nil
}
