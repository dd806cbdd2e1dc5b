package market

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"market-scraper/browser"
	"market-scraper/config"
	"market-scraper/models"
	"market-scraper/utils"
)

const baseURL = "https://market.example.com"

func listingURL(page int) string {
	return fmt.Sprintf("%s/search?p=%d", baseURL, page)
}

func itemURL(name string) string {
	return baseURL + "/listings/730/" + name
}

// listingHTML renders a search result page. An empty next means the next
// control is disabled.
func listingHTML(next string, items ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="searchResultsRows">`)
	for _, item := range items {
		fmt.Fprintf(&b, `<a class="market_listing_row_link" href="/listings/730/%s"><div>%s</div></a>`, item, item)
	}
	b.WriteString(`</div>`)
	if next != "" {
		fmt.Fprintf(&b, `<span id="searchResults_btn_next" class="pagebtn" data-href="%s">&gt;</span>`, next)
	} else {
		b.WriteString(`<span id="searchResults_btn_next" class="pagebtn disabled">&gt;</span>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

type orders struct {
	quantity string
	price    string
}

// itemHTML renders an item detail page. A nil side omits its block; a nil
// activity omits the activity block. Each activity row is a list of cells
// whose first cell is the action label.
func itemHTML(sell, buy *orders, activity [][]string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	if sell != nil {
		fmt.Fprintf(&b, `<div id="market_commodity_forsale"><span>%s</span> for sale starting at <span>%s</span></div>`,
			sell.quantity, sell.price)
	}
	if buy != nil {
		fmt.Fprintf(&b, `<div id="market_commodity_buyrequests"><span>%s</span> requests to buy at <span>%s</span> or lower</div>`,
			buy.quantity, buy.price)
	}
	if activity != nil {
		b.WriteString(`<div id="market_activity_block">`)
		for _, row := range activity {
			b.WriteString(`<div class="market_activity_line_item">`)
			for i, cell := range row {
				class := "market_activity_cell"
				if i == 0 {
					class += " market_activity_action"
				}
				fmt.Fprintf(&b, `<span class="%s">%s</span>`, class, cell)
			}
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func fullItemHTML(price string) string {
	return itemHTML(
		&orders{quantity: "120", price: price},
		&orders{quantity: "40", price: "$0.01"},
		[][]string{{"Sold!", price, "buyer"}},
	)
}

func testOptions() Options {
	return Options{
		MaxPages:       10,
		ItemsPerPage:   10,
		Retry:          config.Retry{MaxAttempts: 3, Delay: time.Millisecond},
		ListingTimeout: 50 * time.Millisecond,
		ReadyTimeout:   100 * time.Millisecond,
		ElementTimeout: 20 * time.Millisecond,
		SettleDelay:    0,
		Selectors:      DefaultSelectors(),
	}
}

func testLogger() *utils.Logger {
	return utils.NewTestLogger(&bytes.Buffer{})
}

func testRetry(opts Options) *utils.RetryConfig {
	return &utils.RetryConfig{MaxAttempts: opts.Retry.MaxAttempts, Delay: opts.Retry.Delay, Logger: testLogger()}
}

// memorySink records appends in order and can be told to fail for a URL.
type memorySink struct {
	records []*models.Record
	failFor map[string]bool
}

func (m *memorySink) Append(_ context.Context, r *models.Record) (int64, error) {
	if m.failFor[r.URL] {
		return 0, errors.New("disk full")
	}
	m.records = append(m.records, r)
	return int64(len(m.records)), nil
}

func (m *memorySink) urls() []string {
	urls := make([]string, 0, len(m.records))
	for _, r := range m.records {
		urls = append(urls, r.URL)
	}
	return urls
}

func launcherFor(session *browser.StaticSession) browser.Launcher {
	return func(context.Context) (browser.Page, error) {
		return session, nil
	}
}
