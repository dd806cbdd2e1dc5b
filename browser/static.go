package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StaticSession is a Page over pre-rendered HTML snapshots keyed by URL. It
// replays saved pages without a browser. Clicking an element with an href
// (or data-href) navigates the active tab to it.
type StaticSession struct {
	snapshots map[string]string

	// LoadingPolls is the number of ReadyState calls that report "loading"
	// after each navigation.
	LoadingPolls int

	tabs    map[TabID]*staticTab
	current TabID
	nextTab int
	closed  bool

	opened     []string
	quits      int
	closedTabs int
}

type staticTab struct {
	url     *url.URL
	doc     *goquery.Document
	loading int
}

var _ Page = (*StaticSession)(nil)

// NewStaticSession creates a session serving snapshots, a map of URL to HTML.
func NewStaticSession(snapshots map[string]string) *StaticSession {
	return &StaticSession{
		snapshots: snapshots,
		tabs:      map[TabID]*staticTab{MainTab: {}},
		current:   MainTab,
	}
}

// Opened returns every URL navigated to, in order.
func (s *StaticSession) Opened() []string {
	return append([]string(nil), s.opened...)
}

// Quits returns how many times Quit was called.
func (s *StaticSession) Quits() int {
	return s.quits
}

// Closed reports whether Quit was called.
func (s *StaticSession) Closed() bool {
	return s.closed
}

func (s *StaticSession) load(ctx context.Context, tab *staticTab, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	html, ok := s.snapshots[rawURL]
	if !ok {
		return fmt.Errorf("static: no snapshot for %s", rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("static: parse url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("static: parse %s: %w", rawURL, err)
	}

	tab.url = u
	tab.doc = doc
	tab.loading = s.LoadingPolls
	s.opened = append(s.opened, rawURL)
	return nil
}

func (s *StaticSession) active() (*staticTab, error) {
	if s.closed {
		return nil, ErrClosed
	}
	tab, ok := s.tabs[s.current]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTab, s.current)
	}
	return tab, nil
}

func (s *StaticSession) Open(ctx context.Context, rawURL string) error {
	tab, err := s.active()
	if err != nil {
		return err
	}
	return s.load(ctx, tab, rawURL)
}

func (s *StaticSession) ReadyState(ctx context.Context) (ReadyState, error) {
	tab, err := s.active()
	if err != nil {
		return "", err
	}
	if tab.doc == nil {
		return ReadyLoading, nil
	}
	if tab.loading > 0 {
		tab.loading--
		return ReadyLoading, nil
	}
	return ReadyComplete, nil
}

func (s *StaticSession) Find(ctx context.Context, selector string) (Element, error) {
	tab, err := s.active()
	if err != nil {
		return nil, err
	}
	if tab.doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return staticFirst(tab, tab.doc.Selection, selector)
}

func (s *StaticSession) FindAll(ctx context.Context, selector string) ([]Element, error) {
	tab, err := s.active()
	if err != nil {
		return nil, err
	}
	if tab.doc == nil {
		return nil, nil
	}
	return staticAll(tab, tab.doc.Selection, selector), nil
}

func (s *StaticSession) Click(ctx context.Context, el Element) error {
	tab, err := s.active()
	if err != nil {
		return err
	}
	se, ok := el.(*staticElement)
	if !ok {
		return fmt.Errorf("static: foreign element %T", el)
	}

	href, ok := se.sel.Attr("href")
	if !ok {
		href, ok = se.sel.Attr("data-href")
	}
	if !ok || href == "" {
		// Nothing to navigate to; a real click would be a no-op too.
		return nil
	}
	return s.load(ctx, tab, se.resolve(href))
}

func (s *StaticSession) ScrollIntoView(ctx context.Context, el Element) error {
	if _, ok := el.(*staticElement); !ok {
		return fmt.Errorf("static: foreign element %T", el)
	}
	_, err := s.active()
	return err
}

func (s *StaticSession) OpenTab(ctx context.Context, rawURL string) (TabID, error) {
	if s.closed {
		return "", ErrClosed
	}
	tab := &staticTab{}
	if err := s.load(ctx, tab, rawURL); err != nil {
		return "", err
	}
	s.nextTab++
	id := TabID(fmt.Sprintf("tab-%d", s.nextTab))
	s.tabs[id] = tab
	return id, nil
}

func (s *StaticSession) SwitchTo(id TabID) error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.tabs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchTab, id)
	}
	s.current = id
	return nil
}

func (s *StaticSession) CloseTab(id TabID) error {
	if s.closed {
		return ErrClosed
	}
	if id == MainTab {
		return fmt.Errorf("static: main tab cannot be closed")
	}
	if _, ok := s.tabs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchTab, id)
	}
	delete(s.tabs, id)
	s.closedTabs++
	if s.current == id {
		s.current = MainTab
	}
	return nil
}

// ClosedTabs returns how many tabs were closed with CloseTab.
func (s *StaticSession) ClosedTabs() int {
	return s.closedTabs
}

// OpenTabs returns the number of tabs, main tab included.
func (s *StaticSession) OpenTabs() int {
	return len(s.tabs)
}

func (s *StaticSession) Quit() error {
	s.quits++
	s.closed = true
	s.tabs = nil
	return nil
}

type staticElement struct {
	tab *staticTab
	sel *goquery.Selection
}

func staticFirst(tab *staticTab, root *goquery.Selection, selector string) (Element, error) {
	match := root.Find(selector).First()
	if match.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return &staticElement{tab: tab, sel: match}, nil
}

func staticAll(tab *staticTab, root *goquery.Selection, selector string) []Element {
	var elements []Element
	root.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, &staticElement{tab: tab, sel: sel})
	})
	return elements
}

func (e *staticElement) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || e.tab.url == nil {
		return ref
	}
	return e.tab.url.ResolveReference(u).String()
}

func (e *staticElement) Text(ctx context.Context) (string, error) {
	return strings.TrimSpace(e.sel.Text()), nil
}

func (e *staticElement) Attr(ctx context.Context, name string) (string, error) {
	v, ok := e.sel.Attr(name)
	if !ok {
		return "", fmt.Errorf("%w: attribute %s", ErrNotFound, name)
	}
	if name == "href" || name == "src" {
		return e.resolve(v), nil
	}
	return v, nil
}

func (e *staticElement) Find(ctx context.Context, selector string) (Element, error) {
	return staticFirst(e.tab, e.sel, selector)
}

func (e *staticElement) FindAll(ctx context.Context, selector string) ([]Element, error) {
	return staticAll(e.tab, e.sel, selector), nil
}
