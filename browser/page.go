// Package browser drives a rendered (JavaScript-executing) page session.
// Callers never parse HTML themselves; every lookup goes through Page and
// Element.
package browser

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a selector matches nothing.
	ErrNotFound = errors.New("element not found")
	// ErrTimeout is returned by WaitFor when the condition never held.
	ErrTimeout = errors.New("wait timed out")
	// ErrNoSuchTab is returned for unknown or already closed tabs.
	ErrNoSuchTab = errors.New("no such tab")
	// ErrClosed is returned by any call made after Quit.
	ErrClosed = errors.New("browser session closed")
)

// ReadyState mirrors document.readyState.
type ReadyState string

const (
	ReadyLoading     ReadyState = "loading"
	ReadyInteractive ReadyState = "interactive"
	ReadyComplete    ReadyState = "complete"
)

// TabID identifies one browsing context (tab) of a session.
type TabID string

// MainTab is the tab a session starts with. It cannot be closed.
const MainTab TabID = "main"

// Element is a handle to a node of the current document.
type Element interface {
	// Text returns the rendered text of the element.
	Text(ctx context.Context) (string, error)
	// Attr returns the named attribute. URL attributes are absolute.
	Attr(ctx context.Context, name string) (string, error)
	// Find returns the first descendant matching selector or ErrNotFound.
	Find(ctx context.Context, selector string) (Element, error)
	// FindAll returns all descendants matching selector in document order.
	FindAll(ctx context.Context, selector string) ([]Element, error)
}

// Page is a single browser session with one active tab at a time. Lookups
// and navigation act on the active tab.
type Page interface {
	Open(ctx context.Context, url string) error
	ReadyState(ctx context.Context) (ReadyState, error)

	Find(ctx context.Context, selector string) (Element, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
	Click(ctx context.Context, el Element) error
	ScrollIntoView(ctx context.Context, el Element) error

	// OpenTab opens url in a new tab without making it active.
	OpenTab(ctx context.Context, url string) (TabID, error)
	SwitchTo(id TabID) error
	// CloseTab closes a tab; if it was active, MainTab becomes active.
	CloseTab(id TabID) error

	// Quit releases the session. It is safe to call more than once.
	Quit() error
}

// Launcher starts a new session. The caller owns the returned Page and must
// Quit it.
type Launcher func(ctx context.Context) (Page, error)
