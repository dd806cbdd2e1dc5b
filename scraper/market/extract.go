package market

import (
	"context"
	"time"

	"market-scraper/browser"
	"market-scraper/models"
	"market-scraper/services"
	"market-scraper/utils"
)

// Extractor reads a Record from a loaded item detail page. Every field is
// best effort: a missing element leaves its field empty.
type Extractor struct {
	sel            Selectors
	elementTimeout time.Duration
	retry          *utils.RetryConfig
	logger         *utils.Logger
}

func NewExtractor(opts Options, retry *utils.RetryConfig, logger *utils.Logger) *Extractor {
	return &Extractor{
		sel:            opts.Selectors,
		elementTimeout: opts.ElementTimeout,
		retry:          retry,
		logger:         logger,
	}
}

// Extract never fails; at worst the record only carries its URL.
func (e *Extractor) Extract(ctx context.Context, page browser.Page, url string) *models.Record {
	r := &models.Record{URL: url}

	if price, qty, ok := e.orderSide(ctx, page, e.sel.SellPrice, e.sel.SellQuantity); ok {
		r.SellPrice, r.SellQuantity = price, qty
	} else {
		e.logger.Warn("[extract] Error extracting sell price from %s", url)
	}

	if price, qty, ok := e.orderSide(ctx, page, e.sel.BuyPrice, e.sel.BuyQuantity); ok {
		r.BuyPrice, r.BuyQuantity = price, qty
	} else {
		e.logger.Warn("[extract] Error extracting buy price from %s", url)
	}

	activity, ok := e.recentActivity(ctx, page)
	if !ok {
		e.logger.Warn("[extract] Error extracting recent activity from %s", url)
	}
	r.RecentActivity = activity

	return r
}

// orderSide reads a price/quantity pair. Both are reported only if both
// were found.
func (e *Extractor) orderSide(ctx context.Context, page browser.Page, priceSel, qtySel string) (string, string, bool) {
	price, ok := e.text(ctx, page, priceSel)
	if !ok {
		return "", "", false
	}
	qty, ok := e.text(ctx, page, qtySel)
	if !ok {
		return "", "", false
	}
	return price, qty, true
}

func (e *Extractor) text(ctx context.Context, page browser.Page, selector string) (string, bool) {
	el, err := utils.Attempt(ctx, e.retry, "find "+selector, func() (browser.Element, error) {
		return page.Find(ctx, selector)
	})
	if err != nil {
		return "", false
	}
	text, err := el.Text(ctx)
	if err != nil {
		e.logger.Debug("[extract] Reading %s: %v", selector, err)
		return "", false
	}
	return services.NormaliseText(text), true
}

// recentActivity returns the activity rows in page order. Rows that do not
// have exactly three cells are not trades and are skipped.
func (e *Extractor) recentActivity(ctx context.Context, page browser.Page) ([]models.Activity, bool) {
	activity := []models.Activity{}

	block, err := utils.Attempt(ctx, e.retry, "wait for activity block", func() (browser.Element, error) {
		return browser.WaitForElement(ctx, page, e.sel.ActivityBlock, e.elementTimeout)
	})
	if err != nil {
		return activity, false
	}

	rows, err := block.FindAll(ctx, e.sel.ActivityRow)
	if err != nil {
		return activity, false
	}

	for _, row := range rows {
		cells, err := row.FindAll(ctx, e.sel.ActivityCell)
		if err != nil || len(cells) != 3 {
			continue
		}

		price, err := cells[1].Text(ctx)
		if err != nil {
			continue
		}

		var activityType string
		if action, err := row.Find(ctx, e.sel.ActivityAction); err == nil {
			if t, err := action.Text(ctx); err == nil {
				activityType = services.NormaliseText(t)
			}
		}

		activity = append(activity, models.Activity{
			ActivityType: activityType,
			Price:        services.NormaliseText(price),
		})
	}
	return activity, true
}
