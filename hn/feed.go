package hn

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/agentuity/go-hn/cache"
)

// FeedTTL is how long a fetched feed id list is served from memory.
const FeedTTL = 2 * time.Minute

// FeedSource resolves feed id lists, fetching each feed at most once per
// FeedTTL and sharing a fetch between concurrent callers.
type FeedSource struct {
	client *Client
	cache  *cache.Keyed[FeedKind, FeedSnapshot]
}

// NewFeedSource returns a FeedSource backed by client. opts are applied
// after the defaults (FeedTTL, the client's logger and metrics).
func NewFeedSource(client *Client, opts ...cache.Option) *FeedSource {
	return &FeedSource{
		client: client,
		cache:  cache.NewKeyed[FeedKind, FeedSnapshot](client.cacheOptions("feeds", FeedTTL, opts)...),
	}
}

// Snapshot returns the current snapshot of kind. Its IDs slice belongs to
// the caller. Unknown kinds fail without a request.
func (s *FeedSource) Snapshot(ctx context.Context, kind FeedKind) (FeedSnapshot, error) {
	if _, ok := kind.Endpoint(); !ok {
		return FeedSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownFeed, kind)
	}
	snap, err := s.cache.Get(ctx, kind, s.fetch)
	if err != nil {
		return FeedSnapshot{}, err
	}
	snap.IDs = slices.Clone(snap.IDs)
	return snap, nil
}

// FeedIDs returns the ordered item ids of kind. The slice belongs to the
// caller.
func (s *FeedSource) FeedIDs(ctx context.Context, kind FeedKind) ([]int, error) {
	snap, err := s.Snapshot(ctx, kind)
	if err != nil {
		return nil, err
	}
	return snap.IDs, nil
}

func (s *FeedSource) fetch(ctx context.Context, kind FeedKind) (FeedSnapshot, error) {
	ids, err := s.client.FeedIDs(ctx, kind)
	if err != nil {
		return FeedSnapshot{}, err
	}
	return FeedSnapshot{Kind: kind, IDs: ids, FetchedAt: s.cache.Now()}, nil
}

func (c *Client) cacheOptions(name string, ttl time.Duration, extra []cache.Option) []cache.Option {
	opts := []cache.Option{cache.WithName(name), cache.WithTTL(ttl), cache.WithLogger(c.logger)}
	if c.metrics != nil {
		opts = append(opts, cache.WithObserver(c.metrics))
	}
	return append(opts, extra...)
}
