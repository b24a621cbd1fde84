package hn

import (
	"fmt"
	"strings"
	"time"
)

// FeedKind names one of the story lists the API publishes.
type FeedKind string

const (
	FeedTop  FeedKind = "top"
	FeedNew  FeedKind = "new"
	FeedBest FeedKind = "best"
	FeedAsk  FeedKind = "ask"
	FeedShow FeedKind = "show"
	FeedJobs FeedKind = "jobs"
)

var feedEndpoints = map[FeedKind]string{
	FeedTop:  "topstories",
	FeedNew:  "newstories",
	FeedBest: "beststories",
	FeedAsk:  "askstories",
	FeedShow: "showstories",
	FeedJobs: "jobstories",
}

// FeedKinds returns every known feed kind in display order.
func FeedKinds() []FeedKind {
	return []FeedKind{FeedTop, FeedNew, FeedBest, FeedAsk, FeedShow, FeedJobs}
}

// Endpoint returns the API resource name for the feed.
func (k FeedKind) Endpoint() (string, bool) {
	e, ok := feedEndpoints[k]
	return e, ok
}

// ParseFeedKind accepts a feed kind or its endpoint name, case-insensitively.
func ParseFeedKind(s string) (FeedKind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for kind, endpoint := range feedEndpoints {
		if v == string(kind) || v == endpoint {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeed, s)
}

// ItemType is the kind of an Item.
type ItemType string

const (
	TypeJob     ItemType = "job"
	TypeStory   ItemType = "story"
	TypeComment ItemType = "comment"
	TypePoll    ItemType = "poll"
	TypePollOpt ItemType = "pollopt"
)

// Item is a story, comment, job, poll or poll option. Field names follow the
// API: By is the author, Kids the child comment ids, Parts the poll option
// ids and Descendants the total comment count.
//
// Items handed out by an ItemSource are shared with its cache and must not
// be modified.
type Item struct {
	ID          int      `json:"id" yaml:"id"`
	Type        ItemType `json:"type,omitempty" yaml:"type,omitempty"`
	By          string   `json:"by,omitempty" yaml:"by,omitempty"`
	Time        int64    `json:"time,omitempty" yaml:"time,omitempty"`
	Text        string   `json:"text,omitempty" yaml:"text,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Score       int      `json:"score,omitempty" yaml:"score,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Kids        []int    `json:"kids,omitempty" yaml:"kids,omitempty"`
	Parts       []int    `json:"parts,omitempty" yaml:"parts,omitempty"`
	Descendants int      `json:"descendants,omitempty" yaml:"descendants,omitempty"`
	Parent      int      `json:"parent,omitempty" yaml:"parent,omitempty"`
	Poll        int      `json:"poll,omitempty" yaml:"poll,omitempty"`
	Deleted     bool     `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Dead        bool     `json:"dead,omitempty" yaml:"dead,omitempty"`
}

// Valid reports whether the item exists and is neither deleted nor dead.
// It is safe to call on a nil Item.
func (i *Item) Valid() bool {
	return i != nil && !i.Deleted && !i.Dead
}

// CreatedAt returns the creation time, or the zero time when unknown.
func (i *Item) CreatedAt() time.Time {
	if i == nil || i.Time == 0 {
		return time.Time{}
	}
	return time.Unix(i.Time, 0)
}

// FeedSnapshot is the id list of a feed as fetched at FetchedAt.
type FeedSnapshot struct {
	Kind      FeedKind
	IDs       []int
	FetchedAt time.Time
}
