package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"market-scraper/utils"
)

const pollInterval = 250 * time.Millisecond

// Condition is polled by WaitFor. An error counts as "not yet" and is only
// reported if the wait times out.
type Condition func(ctx context.Context, p Page) (bool, error)

// WaitFor polls cond until it holds, the timeout elapses or ctx is done.
func WaitFor(ctx context.Context, p Page, cond Condition, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond(ctx, p)
		if err == nil && ok {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if err != nil {
				return fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return ErrTimeout
		}
		if err := utils.Sleep(ctx, min(pollInterval, remaining)); err != nil {
			return err
		}
	}
}

// DocumentComplete holds once document.readyState is "complete".
func DocumentComplete() Condition {
	return func(ctx context.Context, p Page) (bool, error) {
		state, err := p.ReadyState(ctx)
		if err != nil {
			return false, err
		}
		return state == ReadyComplete, nil
	}
}

// ElementPresent holds once selector matches at least one element.
func ElementPresent(selector string) Condition {
	return func(ctx context.Context, p Page) (bool, error) {
		_, err := p.Find(ctx, selector)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	}
}

// WaitForElement waits for selector to be present and returns the first match.
func WaitForElement(ctx context.Context, p Page, selector string, timeout time.Duration) (Element, error) {
	if err := WaitFor(ctx, p, ElementPresent(selector), timeout); err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	return p.Find(ctx, selector)
}
