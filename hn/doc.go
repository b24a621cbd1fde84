// Package hn reads the Hacker News API.
//
// [Client] issues plain requests. [FeedSource] and [ItemSource] put a
// [cache.Keyed] in front of it so every feed is fetched at most once per
// [FeedTTL], every item at most once for the life of the source, and
// concurrent lookups of one key share a single request. [ItemSource.Items]
// loads many items through a bounded worker pool and keeps only the valid
// ones. [Reader] builds feed pages, comment threads and search results on
// top of the sources.
package hn
