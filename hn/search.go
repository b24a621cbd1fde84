package hn

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSearchURL is the Algolia search API for Hacker News.
const DefaultSearchURL = "https://hn.algolia.com/api/v1"

// DefaultHitsPerPage is the search page size used when none is given.
const DefaultHitsPerPage = 30

// Search runs full-text story searches. Results are not cached: a search is
// keyed by free text and page, not by a stable id.
type Search struct {
	client  *Client
	baseURL string
}

// NewSearch returns a Search against baseURL, or DefaultSearchURL if empty.
// Requests go through client's HTTP client, logger, metrics and tracer.
func NewSearch(client *Client, baseURL string) *Search {
	if baseURL == "" {
		baseURL = DefaultSearchURL
	}
	return &Search{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// SearchResult is one page of story ids matching a query.
type SearchResult struct {
	IDs   []int
	Page  int
	Pages int
}

type searchResponse struct {
	Hits []struct {
		ObjectID string `json:"objectID"`
	} `json:"hits"`
	Page        int    `json:"page"`
	NbPages     int    `json:"nbPages"`
	HitsPerPage int    `json:"hitsPerPage"`
	Query       string `json:"query"`
}

// StoryIDs returns the ids of stories matching query on the given zero-based
// page. A blank query returns an empty result without a request.
func (s *Search) StoryIDs(ctx context.Context, query string, page, hitsPerPage int) (SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return SearchResult{IDs: []int{}}, nil
	}
	if page < 0 {
		page = 0
	}
	if hitsPerPage <= 0 {
		hitsPerPage = DefaultHitsPerPage
	}
	params := url.Values{}
	params.Set("query", q)
	params.Set("tags", "story")
	params.Set("page", strconv.Itoa(page))
	params.Set("hitsPerPage", strconv.Itoa(hitsPerPage))

	var resp searchResponse
	if err := s.client.getJSON(ctx, "search", s.baseURL+"/search?"+params.Encode(), &resp); err != nil {
		return SearchResult{}, err
	}
	ids := make([]int, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		id, err := strconv.Atoi(hit.ObjectID)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return SearchResult{IDs: ids, Page: resp.Page, Pages: resp.NbPages}, nil
}
