package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-scraper/browser"
)

func openListing(t *testing.T, snapshots map[string]string) *browser.StaticSession {
	t.Helper()
	session := browser.NewStaticSession(snapshots)
	require.NoError(t, session.Open(context.Background(), listingURL(1)))
	return session
}

func testNavigator() *Navigator {
	opts := testOptions()
	return NewNavigator(opts, testRetry(opts), testLogger())
}

func TestGetItemLinksInPageOrder(t *testing.T) {
	session := openListing(t, map[string]string{
		listingURL(1): listingHTML("", "a", "b", "c"),
	})

	links, err := testNavigator().GetItemLinks(context.Background(), session, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{itemURL("a"), itemURL("b"), itemURL("c")}, links)
}

func TestGetItemLinksCapped(t *testing.T) {
	session := openListing(t, map[string]string{
		listingURL(1): listingHTML("", "a", "b", "c", "d"),
	})

	links, err := testNavigator().GetItemLinks(context.Background(), session, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{itemURL("a"), itemURL("b")}, links)
}

func TestGetItemLinksWithoutRows(t *testing.T) {
	session := openListing(t, map[string]string{
		listingURL(1): listingHTML(""),
	})

	_, err := testNavigator().GetItemLinks(context.Background(), session, 10)
	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.ErrorIs(t, err, browser.ErrTimeout)
}

func TestAdvancePage(t *testing.T) {
	session := openListing(t, map[string]string{
		listingURL(1): listingHTML("/search?p=2", "a"),
		listingURL(2): listingHTML("", "b"),
	})
	nav := testNavigator()
	ctx := context.Background()

	require.True(t, nav.AdvancePage(ctx, session))
	links, err := nav.GetItemLinks(ctx, session, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{itemURL("b")}, links)

	assert.False(t, nav.AdvancePage(ctx, session), "disabled next control ends pagination")
}
