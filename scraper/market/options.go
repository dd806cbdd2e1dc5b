package market

import (
	"time"

	"market-scraper/config"
)

// Selectors locates the parts of the listing and item pages.
type Selectors struct {
	ListingRow string
	NextPage   string

	SellPrice    string
	SellQuantity string
	BuyPrice     string
	BuyQuantity  string

	ActivityBlock  string
	ActivityRow    string
	ActivityCell   string
	ActivityAction string
}

// DefaultSelectors matches the Steam community market.
func DefaultSelectors() Selectors {
	return Selectors{
		ListingRow: "a.market_listing_row_link",
		NextPage:   "#searchResults_btn_next:not(.disabled)",

		SellPrice:    "#market_commodity_forsale > span:nth-of-type(2)",
		SellQuantity: "#market_commodity_forsale > span:nth-of-type(1)",
		BuyPrice:     "#market_commodity_buyrequests > span:nth-of-type(2)",
		BuyQuantity:  "#market_commodity_buyrequests > span:nth-of-type(1)",

		ActivityBlock:  "#market_activity_block",
		ActivityRow:    ".market_activity_line_item",
		ActivityCell:   ".market_activity_cell",
		ActivityAction: ".market_activity_action",
	}
}

// Options are the fixed parameters of one acquisition run.
type Options struct {
	MaxPages     int
	ItemsPerPage int

	Retry config.Retry

	// ListingTimeout bounds the wait for the first listing row.
	ListingTimeout time.Duration
	// ReadyTimeout bounds the wait for an item page to finish loading.
	ReadyTimeout time.Duration
	// ElementTimeout bounds waits for the activity block and the next control.
	ElementTimeout time.Duration
	// SettleDelay is slept after an item page loads and after paginating.
	SettleDelay time.Duration

	Selectors Selectors
}

// OptionsFromConfig builds run options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxPages:       cfg.MaxPages,
		ItemsPerPage:   cfg.ItemsPerPage,
		Retry:          cfg.Retry(),
		ListingTimeout: cfg.ListingTimeout,
		ReadyTimeout:   cfg.ReadyTimeout,
		ElementTimeout: cfg.ElementTimeout,
		SettleDelay:    cfg.SettleDelay,
		Selectors:      DefaultSelectors(),
	}
}
