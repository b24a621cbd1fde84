package hn

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/agentuity/go-hn/slice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemSourceDedup(t *testing.T) {
	api := newFakeAPI()
	api.setItem(42, story(42, "answer"))
	release := api.hold("/item/42.json")
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	var wg sync.WaitGroup
	got := make([]*Item, 2)
	for i := range 2 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, err := items.Item(context.Background(), 42)
			assert.NoError(t, err)
			got[i] = item
		}(i)
	}
	assert.Eventually(t, func() bool { return items.cache.Pending() == 1 && api.count("/item/42.json") == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, api.count("/item/42.json"))
	require.NotNil(t, got[0])
	assert.Same(t, got[0], got[1])
}

func TestItemSourceHitIsNetworkFree(t *testing.T) {
	api := newFakeAPI()
	api.setItem(42, story(42, "answer"))
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	first, err := items.Item(context.Background(), 42)
	require.NoError(t, err)
	second, err := items.Item(context.Background(), 42)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, api.count("/item/42.json"))
}

func TestItemSourceAbsentIsCached(t *testing.T) {
	api := newFakeAPI()
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	for range 2 {
		item, err := items.Item(context.Background(), 999)
		assert.NoError(t, err)
		assert.Nil(t, item)
	}
	assert.Equal(t, 1, api.count("/item/999.json"))
	item, ok := items.Cached(999)
	assert.True(t, ok)
	assert.Nil(t, item)
}

func TestItemSourceFailureDoesNotPoison(t *testing.T) {
	api := newFakeAPI()
	api.setItem(5, story(5, "five"))
	api.setStatus("/item/5.json", http.StatusBadGateway)
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	_, err := items.Item(context.Background(), 5)
	assert.ErrorIs(t, err, ErrTransport)
	_, ok := items.Cached(5)
	assert.False(t, ok)

	api.setStatus("/item/5.json", 0)
	item, err := items.Item(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "five", item.Title)
	assert.Equal(t, 2, api.count("/item/5.json"))
}

func TestItemSourceItemsFiltersInvalid(t *testing.T) {
	api := newFakeAPI()
	api.setItem(1, story(1, "one"))
	api.setItem(2, `{"id":2,"deleted":true}`)
	api.setItem(3, story(3, "three"))
	api.setItem(4, `{"id":4,"type":"comment","dead":true}`)
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	got, err := items.Items(context.Background(), []int{1, 2, 3, 4, 404})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)

	// dropped items stay cached
	two, err := items.Item(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, two.Deleted)
	assert.Equal(t, 1, api.count("/item/2.json"))
	assert.Equal(t, 1, api.count("/item/404.json"))
}

func TestItemSourceItemsPreservesOrder(t *testing.T) {
	api := newFakeAPI()
	ids := make([]int, 0, 40)
	for id := 40; id > 0; id-- {
		api.setItem(id, story(id, "s"))
		ids = append(ids, id)
	}
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	got, err := items.Items(context.Background(), ids, WithConcurrency(7))
	require.NoError(t, err)
	require.Len(t, got, 40)
	for i, item := range got {
		assert.Equal(t, ids[i], item.ID)
	}
}

func TestItemSourceItemsFastPath(t *testing.T) {
	api := newFakeAPI()
	api.setItem(1, story(1, "one"))
	api.setItem(2, story(2, "two"))
	client, log := newTestClient(t, api)
	items := NewItemSource(client)

	_, err := items.Items(context.Background(), []int{1, 2})
	require.NoError(t, err)
	before := len(log.Entries())

	got, err := items.Items(context.Background(), []int{2, 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, before, len(log.Entries()), "fast path neither logs nor requests")
	assert.Equal(t, 1, api.count("/item/1.json"))
	assert.Equal(t, 1, api.count("/item/2.json"))
}

func TestItemSourceItemsSkipsFastPathForInvalidCached(t *testing.T) {
	api := newFakeAPI()
	api.setItem(1, story(1, "one"))
	api.setItem(2, `{"id":2,"dead":true}`)
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	_, err := items.Items(context.Background(), []int{1, 2})
	require.NoError(t, err)

	got, err := items.Items(context.Background(), []int{1, 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, api.count("/item/2.json"), "cached dead item is not fetched again")
}

func TestItemSourceItemsFailFast(t *testing.T) {
	api := newFakeAPI()
	api.setItem(1, story(1, "one"))
	api.setItem(2, story(2, "two"))
	api.setStatus("/item/2.json", http.StatusInternalServerError)
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	got, err := items.Items(context.Background(), []int{1, 2}, WithConcurrency(1))
	assert.ErrorIs(t, err, ErrTransport)
	assert.Nil(t, got)
}

func TestItemSourceItemsEmpty(t *testing.T) {
	api := newFakeAPI()
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)

	got, err := items.Items(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestItemSourceItemsRejectsInvalidConcurrency(t *testing.T) {
	api := newFakeAPI()
	api.setItem(1, story(1, "one"))
	client, _ := newTestClient(t, api)
	items := NewItemSource(client)
	ctx := context.Background()

	_, err := items.Items(ctx, []int{1}, WithConcurrency(0))
	assert.ErrorIs(t, err, slice.ErrInvalidLimit)
	assert.Equal(t, 0, api.count("/item/1.json"))

	_, err = items.Items(ctx, []int{1})
	require.NoError(t, err)
	_, err = items.Items(ctx, []int{1}, WithConcurrency(0))
	assert.ErrorIs(t, err, slice.ErrInvalidLimit, "cached ids get the same answer")
}

func TestItemSourceItemsTagsBatch(t *testing.T) {
	api := newFakeAPI()
	api.setItem(1, story(1, "one"))
	client, log := newTestClient(t, api)
	items := NewItemSource(client)

	_, err := items.Items(context.Background(), []int{1})
	require.NoError(t, err)
	var found bool
	for _, e := range log.Entries() {
		if e.String() == "loading 1 items, concurrency 12" {
			found = true
		}
	}
	assert.True(t, found)
}
