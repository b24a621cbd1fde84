package hn

import (
	"context"

	"github.com/agentuity/go-hn/cache"
	"github.com/agentuity/go-hn/logger"
	"github.com/agentuity/go-hn/slice"
	"github.com/google/uuid"
)

// DefaultConcurrency is the number of item requests Items runs at once.
const DefaultConcurrency = 12

// ItemSource resolves items by id. Each id is fetched at most once for the
// life of the source, including ids the API reports as missing, and
// concurrent lookups of one id share a request.
type ItemSource struct {
	client *Client
	cache  *cache.Keyed[int, *Item]
}

// NewItemSource returns an ItemSource backed by client. Entries never
// expire; opts are applied after the defaults.
func NewItemSource(client *Client, opts ...cache.Option) *ItemSource {
	return &ItemSource{
		client: client,
		cache:  cache.NewKeyed[int, *Item](client.cacheOptions("items", 0, opts)...),
	}
}

// Item returns the item with id, or nil if the API has no such item.
func (s *ItemSource) Item(ctx context.Context, id int) (*Item, error) {
	return s.cache.Get(ctx, id, s.client.Item)
}

type itemsConfig struct {
	concurrency int
}

// ItemsOption configures a call to Items.
type ItemsOption func(*itemsConfig)

// WithConcurrency caps the number of requests Items runs at once.
func WithConcurrency(n int) ItemsOption {
	return func(c *itemsConfig) { c.concurrency = n }
}

// Items returns the valid items among ids in the order of ids. Missing,
// deleted and dead items are left out of the result but stay cached.
//
// Items fails as a whole on the first request error; see ItemSource.Item
// for per-id results.
func (s *ItemSource) Items(ctx context.Context, ids []int, opts ...ItemsOption) ([]*Item, error) {
	cfg := itemsConfig{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.concurrency < 1 {
		return nil, slice.ErrInvalidLimit
	}
	if items, ok := s.cachedValid(ids); ok {
		return items, nil
	}
	log := logger.WithKV(s.client.logger, "batch", uuid.NewString()).WithContext(ctx)
	log.Debug("loading %d items, concurrency %d", len(ids), cfg.concurrency)
	items, err := slice.MapConcurrent(ctx, ids, cfg.concurrency, s.Item)
	if err != nil {
		log.Debug("loading items failed: %s", err)
		return nil, err
	}
	valid := slice.Filter(items, (*Item).Valid)
	log.Debug("loaded %d items, %d valid", len(items), len(valid))
	return valid, nil
}

// cachedValid returns the items for ids when every one of them is cached
// and valid.
func (s *ItemSource) cachedValid(ids []int) ([]*Item, bool) {
	items := make([]*Item, 0, len(ids))
	for _, id := range ids {
		item, ok := s.cache.Peek(id)
		if !ok || !item.Valid() {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

// Cached returns the cached item for id without fetching. ok is false when
// id has not been fetched yet.
func (s *ItemSource) Cached(id int) (item *Item, ok bool) {
	return s.cache.Peek(id)
}
