// Package cache provides an in-process, read-through cache that memoizes
// the result of a remote lookup per key and coalesces concurrent lookups of
// the same key into one fetch.
//
// # Keyed
//
// [Keyed] is generic over the key and value types. Callers construct one
// with [NewKeyed] and share it; there is no package-level state, so tests
// get a fresh cache each time and independent caches can live side by side.
//
//	items := cache.NewKeyed[int, *Item](cache.WithName("items"))
//	item, err := items.Get(ctx, 42, func(ctx context.Context, id int) (*Item, error) {
//	    return client.Item(ctx, id)
//	})
//
// [Keyed.Get] resolves a key in one of three ways:
//
//   - a fresh stored entry is returned immediately, nothing is awaited;
//   - a fetch already running for the key is joined, no second fetch starts;
//   - otherwise the [Fetcher] is started and registered as the key's
//     in-flight fetch.
//
// The check for an in-flight fetch and its registration happen under one
// mutex, so at most one fetch per key is ever outstanding.
//
// # Results
//
// A successful fetch is stored with the time it settled and handed to every
// caller that joined it. A failed fetch stores nothing and its error is
// handed, unchanged, to every caller that joined it. The in-flight record is
// removed as soon as the fetch settles either way, so a failure never sticks:
// the next [Keyed.Get] for the key starts a new fetch. Keyed never retries
// on its own.
//
// A zero value (for example a nil pointer for a record the remote reports
// as missing) is a result like any other and is stored.
//
// # Freshness
//
// [WithTTL] sets a freshness window. An entry older than the window is
// treated as a miss, but it is not deleted; it stays until a later
// successful fetch overwrites it. Without a TTL entries never go stale.
// Nothing is evicted for memory pressure: the cache grows with the set of
// distinct keys it has seen.
//
// # Cancellation
//
// Fetches run on a context detached from the caller's cancellation (values
// such as trace spans are kept). Each caller waits on the fetch or on its
// own context, whichever finishes first. A caller whose context is done gets
// its context error back; callers sharing the same fetch are unaffected.
// When the last waiting caller goes away the fetch's context is cancelled
// and the in-flight record is dropped, so a later lookup starts fresh
// instead of joining an aborted fetch.
//
// # Observing
//
// [WithObserver] installs an [Observer] that is told about hits, misses
// (new fetches), joins and fetch errors. [WithLogger] logs the same events
// at trace level.
package cache
