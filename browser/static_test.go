package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><body>
<div id="rows">
  <a class="row" href="/item/1">One</a>
  <a class="row" href="https://example.com/item/2"> Two </a>
</div>
<span id="next" data-href="/list?p=2">&gt;</span>
</body></html>`

func newTestSession() *StaticSession {
	return NewStaticSession(map[string]string{
		"https://example.com/list":     listingHTML,
		"https://example.com/list?p=2": `<html><body><p>second</p></body></html>`,
		"https://example.com/item/1":   `<html><body><h1>item one</h1></body></html>`,
	})
}

func TestStaticFindAndAttr(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	require.NoError(t, s.Open(ctx, "https://example.com/list"))

	rows, err := s.FindAll(ctx, "a.row")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	href, err := rows[0].Attr(ctx, "href")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/item/1", href)

	text, err := rows[1].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Two", text)

	_, err = s.Find(ctx, "#missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = rows[0].Attr(ctx, "title")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticClickNavigates(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	require.NoError(t, s.Open(ctx, "https://example.com/list"))

	next, err := s.Find(ctx, "#next")
	require.NoError(t, err)
	require.NoError(t, s.ScrollIntoView(ctx, next))
	require.NoError(t, s.Click(ctx, next))

	_, err = s.Find(ctx, "p")
	assert.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/list", "https://example.com/list?p=2"}, s.Opened())
}

func TestStaticTabs(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	require.NoError(t, s.Open(ctx, "https://example.com/list"))

	id, err := s.OpenTab(ctx, "https://example.com/item/1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.OpenTabs())

	// Opening a tab does not switch to it.
	_, err = s.Find(ctx, "h1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SwitchTo(id))
	_, err = s.Find(ctx, "h1")
	require.NoError(t, err)

	require.NoError(t, s.CloseTab(id))
	assert.Equal(t, 1, s.OpenTabs())
	assert.Equal(t, 1, s.ClosedTabs())
	assert.ErrorIs(t, s.SwitchTo(id), ErrNoSuchTab)
	assert.Error(t, s.CloseTab(MainTab))

	_, err = s.Find(ctx, "a.row")
	assert.NoError(t, err, "main tab keeps its document")
}

func TestStaticQuit(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	require.NoError(t, s.Quit())
	require.NoError(t, s.Quit())
	assert.Equal(t, 2, s.Quits())
	assert.ErrorIs(t, s.Open(ctx, "https://example.com/list"), ErrClosed)
}

func TestWaitForReadyAfterLoadingPolls(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	s.LoadingPolls = 2
	require.NoError(t, s.Open(ctx, "https://example.com/list"))

	start := time.Now()
	require.NoError(t, WaitFor(ctx, s, DocumentComplete(), 5*time.Second))
	assert.GreaterOrEqual(t, time.Since(start), 2*pollInterval)
}

func TestWaitForTimesOut(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	require.NoError(t, s.Open(ctx, "https://example.com/list"))

	_, err := WaitForElement(ctx, s, ".never", 300*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	el, err := WaitForElement(ctx, s, "#rows", time.Second)
	require.NoError(t, err)
	assert.NotNil(t, el)
}

func TestWaitForCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestSession()
	err := WaitFor(ctx, s, ElementPresent("a"), time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
