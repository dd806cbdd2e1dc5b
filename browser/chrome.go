package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ChromeOptions configures LaunchChrome.
type ChromeOptions struct {
	ExecPath          string
	Headless          bool
	UserAgent         string
	NavigationTimeout time.Duration
	// QueryTimeout bounds a single node lookup or text read.
	QueryTimeout time.Duration
}

type chromeTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// ChromeSession is a Page backed by a headless Chrome instance driven over
// the DevTools protocol. Each TabID maps to one chromedp target context.
type ChromeSession struct {
	opts ChromeOptions

	cancelAlloc context.CancelFunc
	browserCtx  context.Context

	tabs    map[TabID]*chromeTab
	current TabID
	nextTab int
	closed  bool
}

var _ Page = (*ChromeSession)(nil)

// LaunchChrome starts a browser whose lifetime is bound to ctx and returns a
// session positioned on a blank main tab.
func LaunchChrome(ctx context.Context, opts ChromeOptions) (*ChromeSession, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 60 * time.Second
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 10 * time.Second
	}

	flags := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	if bin := FindChromeBinary(opts.ExecPath); bin != "" {
		flags = append(flags, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, flags...)

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// The first Run starts the browser; it must not carry a deadline or the
	// browser would die with it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("chrome: start browser: %w", err)
	}

	return &ChromeSession{
		opts:        opts,
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		tabs: map[TabID]*chromeTab{
			MainTab: {ctx: browserCtx, cancel: cancelBrowser},
		},
		current: MainTab,
	}, nil
}

// run executes actions on tab, bounded by both ctx and timeout.
func (s *ChromeSession) run(ctx context.Context, tab *chromeTab, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(tab.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (s *ChromeSession) active() (*chromeTab, error) {
	if s.closed {
		return nil, ErrClosed
	}
	tab, ok := s.tabs[s.current]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTab, s.current)
	}
	return tab, nil
}

func (s *ChromeSession) Open(ctx context.Context, url string) error {
	tab, err := s.active()
	if err != nil {
		return err
	}
	if err := s.run(ctx, tab, s.opts.NavigationTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("chrome: navigate %s: %w", url, err)
	}
	return nil
}

func (s *ChromeSession) ReadyState(ctx context.Context) (ReadyState, error) {
	tab, err := s.active()
	if err != nil {
		return "", err
	}
	var state string
	if err := s.run(ctx, tab, s.opts.QueryTimeout, chromedp.Evaluate(`document.readyState`, &state)); err != nil {
		return "", fmt.Errorf("chrome: ready state: %w", err)
	}
	return ReadyState(state), nil
}

func (s *ChromeSession) Find(ctx context.Context, selector string) (Element, error) {
	tab, err := s.active()
	if err != nil {
		return nil, err
	}
	return s.first(ctx, tab, selector)
}

func (s *ChromeSession) FindAll(ctx context.Context, selector string) ([]Element, error) {
	tab, err := s.active()
	if err != nil {
		return nil, err
	}
	return s.query(ctx, tab, selector)
}

// query never waits for a match: AtLeast(0) returns whatever is in the DOM now.
func (s *ChromeSession) query(ctx context.Context, tab *chromeTab, selector string, opts ...chromedp.QueryOption) ([]Element, error) {
	var nodes []*cdp.Node
	opts = append([]chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}, opts...)
	if err := s.run(ctx, tab, s.opts.QueryTimeout, chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("chrome: query %q: %w", selector, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{session: s, tab: tab, node: n})
	}
	return elements, nil
}

func (s *ChromeSession) first(ctx context.Context, tab *chromeTab, selector string, opts ...chromedp.QueryOption) (Element, error) {
	elements, err := s.query(ctx, tab, selector, opts...)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return elements[0], nil
}

func (s *ChromeSession) Click(ctx context.Context, el Element) error {
	return s.callOn(ctx, el, `function() { this.click(); }`)
}

func (s *ChromeSession) ScrollIntoView(ctx context.Context, el Element) error {
	return s.callOn(ctx, el, `function() { this.scrollIntoView(); }`)
}

// callOn invokes a JavaScript function with the element bound to this.
func (s *ChromeSession) callOn(ctx context.Context, el Element, fn string) error {
	ce, ok := el.(*chromeElement)
	if !ok {
		return fmt.Errorf("chrome: foreign element %T", el)
	}
	if s.closed {
		return ErrClosed
	}

	return s.run(ctx, ce.tab, s.opts.QueryTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithBackendNodeID(ce.node.BackendNodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("chrome: resolve node: %w", err)
		}
		_, exc, err := runtime.CallFunctionOn(fn).WithObjectID(obj.ObjectID).Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("chrome: %s", exc.Text)
		}
		return nil
	}))
}

func (s *ChromeSession) OpenTab(ctx context.Context, url string) (TabID, error) {
	if s.closed {
		return "", ErrClosed
	}

	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	// Create the target before applying any deadline.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return "", fmt.Errorf("chrome: open tab: %w", err)
	}

	tab := &chromeTab{ctx: tabCtx, cancel: cancel}
	if err := s.run(ctx, tab, s.opts.NavigationTimeout, chromedp.Navigate(url)); err != nil {
		cancel()
		return "", fmt.Errorf("chrome: open tab %s: %w", url, err)
	}

	s.nextTab++
	id := TabID(fmt.Sprintf("tab-%d", s.nextTab))
	s.tabs[id] = tab
	return id, nil
}

func (s *ChromeSession) SwitchTo(id TabID) error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.tabs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchTab, id)
	}
	s.current = id
	return nil
}

func (s *ChromeSession) CloseTab(id TabID) error {
	if s.closed {
		return ErrClosed
	}
	if id == MainTab {
		return fmt.Errorf("chrome: main tab cannot be closed")
	}
	tab, ok := s.tabs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchTab, id)
	}
	// Cancelling a non-first context closes its target.
	tab.cancel()
	delete(s.tabs, id)
	if s.current == id {
		s.current = MainTab
	}
	return nil
}

func (s *ChromeSession) Quit() error {
	if s.closed {
		return nil
	}
	s.closed = true

	for id, tab := range s.tabs {
		if id != MainTab {
			tab.cancel()
		}
	}
	err := chromedp.Cancel(s.browserCtx)
	s.tabs[MainTab].cancel()
	s.cancelAlloc()
	s.tabs = nil
	if err != nil {
		return fmt.Errorf("chrome: close browser: %w", err)
	}
	return nil
}

type chromeElement struct {
	session *ChromeSession
	tab     *chromeTab
	node    *cdp.Node
}

func (e *chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.session.run(ctx, e.tab, e.session.opts.QueryTimeout,
		chromedp.JavascriptAttribute(e.ids(), "innerText", &text, chromedp.ByNodeID))
	if err != nil {
		return "", fmt.Errorf("chrome: read text: %w", err)
	}
	return text, nil
}

// Attr reads the DOM property first so that href and src come back resolved,
// then falls back to the raw attribute.
func (e *chromeElement) Attr(ctx context.Context, name string) (string, error) {
	var prop interface{}
	err := e.session.run(ctx, e.tab, e.session.opts.QueryTimeout,
		chromedp.JavascriptAttribute(e.ids(), name, &prop, chromedp.ByNodeID))
	if err == nil {
		if s, ok := prop.(string); ok && s != "" {
			return s, nil
		}
	}

	if v := e.node.AttributeValue(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: attribute %s", ErrNotFound, name)
}

func (e *chromeElement) Find(ctx context.Context, selector string) (Element, error) {
	return e.session.first(ctx, e.tab, selector, chromedp.FromNode(e.node))
}

func (e *chromeElement) FindAll(ctx context.Context, selector string) ([]Element, error) {
	return e.session.query(ctx, e.tab, selector, chromedp.FromNode(e.node))
}

// FindChromeBinary returns explicit if set, otherwise locates a
// Chrome/Chromium binary. An empty result lets chromedp use its own lookup.
func FindChromeBinary(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
