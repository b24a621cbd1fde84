package hn

import (
	"context"
	"time"

	"github.com/agentuity/go-hn/cache"
	"github.com/agentuity/go-hn/slice"
)

// ReaderConfig configures a Reader. Zero fields take the package defaults.
type ReaderConfig struct {
	FeedTTL     time.Duration
	Concurrency int
	SearchURL   string
}

// Reader combines the feed, item and search sources behind page and thread
// level reads.
type Reader struct {
	Feeds  *FeedSource
	Items  *ItemSource
	Search *Search

	concurrency int
}

// NewReader returns a Reader whose sources share client.
func NewReader(client *Client, cfg ReaderConfig) *Reader {
	var feedOpts []cache.Option
	if cfg.FeedTTL > 0 {
		feedOpts = append(feedOpts, cache.WithTTL(cfg.FeedTTL))
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Reader{
		Feeds:       NewFeedSource(client, feedOpts...),
		Items:       NewItemSource(client),
		Search:      NewSearch(client, cfg.SearchURL),
		concurrency: cfg.Concurrency,
	}
}

// Page returns the valid items among feed ids [offset, offset+limit).
func (r *Reader) Page(ctx context.Context, kind FeedKind, offset, limit int) ([]*Item, error) {
	ids, err := r.Feeds.FeedIDs(ctx, kind)
	if err != nil {
		return nil, err
	}
	return r.Items.Items(ctx, slice.Window(ids, offset, limit), WithConcurrency(r.concurrency))
}

// SearchStories runs a story search and loads the valid matching items.
func (r *Reader) SearchStories(ctx context.Context, query string, page, hitsPerPage int) ([]*Item, SearchResult, error) {
	res, err := r.Search.StoryIDs(ctx, query, page, hitsPerPage)
	if err != nil {
		return nil, SearchResult{}, err
	}
	items, err := r.Items.Items(ctx, res.IDs, WithConcurrency(r.concurrency))
	if err != nil {
		return nil, SearchResult{}, err
	}
	return items, res, nil
}

// Thread is an item with the part of its comment tree that was loaded.
type Thread struct {
	Item     *Item
	Children []*Thread
}

// Walk calls fn for t and every loaded descendant, depth first, with the
// depth below t.
func (t *Thread) Walk(fn func(t *Thread, depth int)) {
	t.walk(fn, 0)
}

func (t *Thread) walk(fn func(t *Thread, depth int), depth int) {
	fn(t, depth)
	for _, child := range t.Children {
		child.walk(fn, depth+1)
	}
}

// Thread loads item id and its comments down to depth levels, one bulk
// request per level. Missing, deleted and dead comments are left out along
// with their replies. A missing root returns ErrNotFound.
func (r *Reader) Thread(ctx context.Context, id int, depth int) (*Thread, error) {
	root, err := r.Items.Item(ctx, id)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNotFound
	}
	top := &Thread{Item: root}
	level := []*Thread{top}
	for d := 0; d < depth && len(level) > 0; d++ {
		var ids []int
		for _, node := range level {
			ids = append(ids, node.Item.Kids...)
		}
		if len(ids) == 0 {
			break
		}
		items, err := r.Items.Items(ctx, ids, WithConcurrency(r.concurrency))
		if err != nil {
			return nil, err
		}
		byID := make(map[int]*Item, len(items))
		for _, item := range items {
			byID[item.ID] = item
		}
		var next []*Thread
		for _, node := range level {
			for _, kid := range node.Item.Kids {
				if item, ok := byID[kid]; ok {
					child := &Thread{Item: item}
					node.Children = append(node.Children, child)
					next = append(next, child)
				}
			}
		}
		level = next
	}
	return top, nil
}
