package market

import (
	"context"
	"time"

	"market-scraper/browser"
	"market-scraper/utils"
)

// Navigator reads item links from a listing page and moves it forward.
type Navigator struct {
	sel            Selectors
	listingTimeout time.Duration
	elementTimeout time.Duration
	settleDelay    time.Duration
	retry          *utils.RetryConfig
	logger         *utils.Logger
}

func NewNavigator(opts Options, retry *utils.RetryConfig, logger *utils.Logger) *Navigator {
	return &Navigator{
		sel:            opts.Selectors,
		listingTimeout: opts.ListingTimeout,
		elementTimeout: opts.ElementTimeout,
		settleDelay:    opts.SettleDelay,
		retry:          retry,
		logger:         logger,
	}
}

// GetItemLinks waits for the listing rows and returns the links of the first
// maxItems of them in page order (maxItems <= 0 means no cap). It fails with
// a *NavigationError if no row appears within the listing timeout.
func (n *Navigator) GetItemLinks(ctx context.Context, page browser.Page, maxItems int) ([]string, error) {
	if _, err := browser.WaitForElement(ctx, page, n.sel.ListingRow, n.listingTimeout); err != nil {
		return nil, &NavigationError{Op: "wait for listing rows", Err: err}
	}

	rows, err := page.FindAll(ctx, n.sel.ListingRow)
	if err != nil {
		return nil, &NavigationError{Op: "collect listing rows", Err: err}
	}
	if maxItems > 0 && len(rows) > maxItems {
		rows = rows[:maxItems]
	}

	links := make([]string, 0, len(rows))
	for i, row := range rows {
		href, err := row.Attr(ctx, "href")
		if err != nil {
			n.logger.Debug("[listing] Row %d has no link: %v", i+1, err)
			continue
		}
		links = append(links, href)
	}
	return links, nil
}

// AdvancePage clicks the "Next" control and waits for the next page to
// settle. It returns false when there is no next page or the click failed.
func (n *Navigator) AdvancePage(ctx context.Context, page browser.Page) bool {
	next, err := utils.Attempt(ctx, n.retry, "find next page control", func() (browser.Element, error) {
		return browser.WaitForElement(ctx, page, n.sel.NextPage, n.elementTimeout)
	})
	if err != nil {
		n.logger.Info("[listing] No next page control: %v", err)
		return false
	}

	if err := page.ScrollIntoView(ctx, next); err != nil {
		n.logger.Warn("[listing] Error scrolling to next button: %v", err)
		return false
	}
	if err := page.Click(ctx, next); err != nil {
		n.logger.Warn("[listing] Error clicking next button: %v", err)
		return false
	}
	n.logger.Debug("[listing] Clicked the next button")

	if err := utils.Sleep(ctx, n.settleDelay); err != nil {
		return false
	}
	return true
}
