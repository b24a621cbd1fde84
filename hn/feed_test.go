package hn

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/agentuity/go-hn/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestFeedSourceTTL(t *testing.T) {
	api := newFakeAPI()
	api.feeds["topstories"] = []int{1, 2, 3}
	client, _ := newTestClient(t, api)
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	feeds := NewFeedSource(client, cache.WithClock(clock.Now))
	ctx := context.Background()

	ids, err := feeds.FeedIDs(ctx, FeedTop)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)
	assert.Equal(t, 1, api.count("/topstories.json"))

	clock.Advance(FeedTTL - time.Second)
	_, err = feeds.FeedIDs(ctx, FeedTop)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("/topstories.json"), "within the window")

	clock.Advance(2 * time.Second)
	_, err = feeds.FeedIDs(ctx, FeedTop)
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("/topstories.json"), "past the window")

	_, err = feeds.FeedIDs(ctx, FeedTop)
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("/topstories.json"))
}

func TestFeedSourceSnapshotReplacedWholesale(t *testing.T) {
	api := newFakeAPI()
	api.feeds["newstories"] = []int{10, 11}
	client, _ := newTestClient(t, api)
	clock := &testClock{now: time.Unix(0, 0)}
	feeds := NewFeedSource(client, cache.WithClock(clock.Now))
	ctx := context.Background()

	snap, err := feeds.Snapshot(ctx, FeedNew)
	require.NoError(t, err)
	assert.Equal(t, FeedNew, snap.Kind)
	assert.Equal(t, []int{10, 11}, snap.IDs)
	assert.False(t, snap.FetchedAt.IsZero())

	api.mu.Lock()
	api.feeds["newstories"] = []int{12}
	api.mu.Unlock()
	clock.Advance(3 * time.Minute)

	snap, err = feeds.Snapshot(ctx, FeedNew)
	require.NoError(t, err)
	assert.Equal(t, []int{12}, snap.IDs)
}

func TestFeedSourceReturnsCopies(t *testing.T) {
	api := newFakeAPI()
	api.feeds["beststories"] = []int{1, 2}
	client, _ := newTestClient(t, api)
	feeds := NewFeedSource(client)

	ids, err := feeds.FeedIDs(context.Background(), FeedBest)
	require.NoError(t, err)
	ids[0] = 99
	again, err := feeds.FeedIDs(context.Background(), FeedBest)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, again)
}

func TestFeedSourceSnapshotReturnsCopy(t *testing.T) {
	api := newFakeAPI()
	api.feeds["topstories"] = []int{1, 2, 3}
	client, _ := newTestClient(t, api)
	feeds := NewFeedSource(client)
	ctx := context.Background()

	snap, err := feeds.Snapshot(ctx, FeedTop)
	require.NoError(t, err)
	snap.IDs[0] = 999

	ids, err := feeds.FeedIDs(ctx, FeedTop)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	again, err := feeds.Snapshot(ctx, FeedTop)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, again.IDs)
	assert.Equal(t, 1, api.count("/topstories.json"))
}

func TestFeedSourceFetchedAtUsesCacheClock(t *testing.T) {
	api := newFakeAPI()
	api.feeds["showstories"] = []int{4}
	client, _ := newTestClient(t, api)
	start := time.Unix(1_700_000_000, 0)
	clock := &testClock{now: start}
	feeds := NewFeedSource(client, cache.WithClock(clock.Now))
	ctx := context.Background()

	snap, err := feeds.Snapshot(ctx, FeedShow)
	require.NoError(t, err)
	assert.Equal(t, start, snap.FetchedAt)

	clock.Advance(FeedTTL)
	snap, err = feeds.Snapshot(ctx, FeedShow)
	require.NoError(t, err)
	assert.Equal(t, start.Add(FeedTTL), snap.FetchedAt)
}

func TestFeedSourceCoalescesConcurrentCallers(t *testing.T) {
	api := newFakeAPI()
	api.feeds["askstories"] = []int{5}
	release := api.hold("/askstories.json")
	client, _ := newTestClient(t, api)
	feeds := NewFeedSource(client)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := feeds.FeedIDs(context.Background(), FeedAsk)
			assert.NoError(t, err)
			assert.Equal(t, []int{5}, ids)
		}()
	}
	assert.Eventually(t, func() bool { return api.count("/askstories.json") == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, 1, api.count("/askstories.json"))
}

func TestFeedSourceFailureRetriesNextCall(t *testing.T) {
	api := newFakeAPI()
	api.feeds["showstories"] = []int{7}
	api.setStatus("/showstories.json", http.StatusInternalServerError)
	client, _ := newTestClient(t, api)
	feeds := NewFeedSource(client)

	_, err := feeds.FeedIDs(context.Background(), FeedShow)
	assert.ErrorIs(t, err, ErrTransport)

	api.setStatus("/showstories.json", 0)
	ids, err := feeds.FeedIDs(context.Background(), FeedShow)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids)
	assert.Equal(t, 2, api.count("/showstories.json"))
}

func TestFeedSourceUnknownKind(t *testing.T) {
	api := newFakeAPI()
	client, _ := newTestClient(t, api)
	feeds := NewFeedSource(client)
	_, err := feeds.FeedIDs(context.Background(), FeedKind("frontpage"))
	assert.ErrorIs(t, err, ErrUnknownFeed)
}
