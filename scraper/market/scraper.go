package market

import (
	"context"
	"errors"
	"fmt"

	"market-scraper/browser"
	"market-scraper/models"
	"market-scraper/storage"
	"market-scraper/utils"
)

// Scraper runs the acquisition pipeline: it walks the listing pages, opens
// every item in its own tab, extracts a Record and appends it to the sink.
// Runs are strictly sequential; each run owns one browser session.
type Scraper struct {
	opts      Options
	launch    browser.Launcher
	sink      storage.RecordSink
	logger    *utils.Logger
	retry     *utils.RetryConfig
	navigator *Navigator
	extractor *Extractor
}

// New creates a Scraper. launch is called once per Run; the session it
// returns is released when the run ends.
func New(opts Options, launch browser.Launcher, sink storage.RecordSink, logger *utils.Logger) *Scraper {
	retry := &utils.RetryConfig{
		MaxAttempts: opts.Retry.MaxAttempts,
		Delay:       opts.Retry.Delay,
		Logger:      logger,
	}
	return &Scraper{
		opts:      opts,
		launch:    launch,
		sink:      sink,
		logger:    logger,
		retry:     retry,
		navigator: NewNavigator(opts, retry, logger),
		extractor: NewExtractor(opts, retry, logger),
	}
}

// Run scrapes up to maxPages listing pages starting at startURL; maxPages
// <= 0 uses the configured limit. Reaching the page limit or the last page
// is a successful run. A non-nil error means the run was aborted or
// cancelled; the result still counts the work done before that.
func (s *Scraper) Run(ctx context.Context, startURL string, maxPages int) (models.RunResult, error) {
	if maxPages <= 0 {
		maxPages = s.opts.MaxPages
	}
	s.logger.Info("[pipeline] Starting run: %s (max %d pages, %d items/page)",
		startURL, maxPages, s.opts.ItemsPerPage)

	page, err := s.launch(ctx)
	if err != nil {
		s.logger.Error("[pipeline] Could not start browser: %v", err)
		return models.RunResult{Status: models.RunAborted}, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := page.Quit(); err != nil {
			s.logger.Warn("[pipeline] Closing browser: %v", err)
		}
	}()

	res, err := s.crawl(ctx, page, startURL, maxPages)
	if err != nil {
		res.Status = models.RunAborted
		if ctx.Err() != nil {
			res.Status = models.RunCancelled
		}
		s.logger.Error("[pipeline] Run %s after %d pages: %v", res.Status, res.Pages, err)
		return res, err
	}

	s.logger.Info("[pipeline] Run %s: %d pages, %d items visited, %d records saved",
		res.Status, res.Pages, res.ItemsVisited, res.RecordsSaved)
	return res, nil
}

func (s *Scraper) crawl(ctx context.Context, page browser.Page, startURL string, maxPages int) (models.RunResult, error) {
	var res models.RunResult

	if err := page.Open(ctx, startURL); err != nil {
		return res, fmt.Errorf("open listing: %w", err)
	}

	for current := 1; ; current++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		s.logger.Info("[pipeline] Scraping page %d...", current)
		res.Pages = current

		links, err := utils.Attempt(ctx, s.retry, fmt.Sprintf("get item links (page %d)", current),
			func() ([]string, error) {
				return s.navigator.GetItemLinks(ctx, page, s.opts.ItemsPerPage)
			})
		if len(links) == 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			if err != nil {
				return res, fmt.Errorf("page %d: %w: %w", current, ErrNoItems, err)
			}
			return res, fmt.Errorf("page %d: %w", current, ErrNoItems)
		}

		for _, link := range links {
			if err := s.visit(ctx, page, link, &res); err != nil {
				return res, err
			}
		}

		if current >= maxPages {
			s.logger.Info("[pipeline] Page limit %d reached", maxPages)
			res.Status = models.RunCompleted
			return res, nil
		}

		if !s.navigator.AdvancePage(ctx, page) {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			s.logger.Info("[pipeline] No more pages after page %d", current)
			res.Status = models.RunExhausted
			return res, nil
		}
	}
}

// visit opens link in its own tab, extracts it and persists the record. An
// item that cannot be opened is skipped. Only a failure to get back to the
// listing tab, or cancellation, is returned.
func (s *Scraper) visit(ctx context.Context, page browser.Page, link string, res *models.RunResult) error {
	tab, err := utils.Attempt(ctx, s.retry, "open item "+link, func() (browser.TabID, error) {
		return page.OpenTab(ctx, link)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Error("[pipeline] Skipping %s: %v", link, err)
		res.ItemsVisited++
		return nil
	}

	var record *models.Record
	if err := page.SwitchTo(tab); err == nil {
		record = s.extractItem(ctx, page, link)
	} else {
		s.logger.Error("[pipeline] Switching to item tab: %v", err)
	}

	if err := errors.Join(page.CloseTab(tab), page.SwitchTo(browser.MainTab)); err != nil {
		return fmt.Errorf("return to listing: %w", err)
	}
	res.ItemsVisited++

	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	id, err := s.sink.Append(ctx, record)
	if err != nil {
		s.logger.Error("[pipeline] Failed to save %s: %v", link, err)
		return nil
	}
	res.RecordsSaved++
	s.logger.Info("[pipeline] Saved record #%d: %s", id, link)
	return nil
}

func (s *Scraper) extractItem(ctx context.Context, page browser.Page, link string) *models.Record {
	err := s.retry.Do(ctx, "wait for item page load", func() error {
		return browser.WaitFor(ctx, page, browser.DocumentComplete(), s.opts.ReadyTimeout)
	})
	if err != nil {
		s.logger.Warn("[pipeline] Item page %s did not finish loading: %v", link, err)
	}

	if err := utils.Sleep(ctx, s.opts.SettleDelay); err != nil {
		return nil
	}
	return s.extractor.Extract(ctx, page, link)
}
