package cache

import (
	"time"

	"github.com/agentuity/go-hn/logger"
)

// Observer receives cache events. Implementations must be safe for
// concurrent use.
type Observer interface {
	// Hit is called when a fresh entry satisfied a lookup.
	Hit(name string)
	// Miss is called when a lookup started a new fetch.
	Miss(name string)
	// Join is called when a lookup joined an in-flight fetch.
	Join(name string)
	// Error is called when a fetch settled with an error.
	Error(name string)
}

type nopObserver struct{}

func (nopObserver) Hit(string)   {}
func (nopObserver) Miss(string)  {}
func (nopObserver) Join(string)  {}
func (nopObserver) Error(string) {}

// config holds the resolved configuration for a Keyed cache.
type config struct {
	ttl      time.Duration
	name     string
	logger   logger.Logger
	now      func() time.Time
	observer Observer
}

// Option configures a Keyed cache.
type Option func(*config)

func defaultConfig() config {
	return config{
		name:     "cache",
		now:      time.Now,
		observer: nopObserver{},
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTTL sets the freshness window. Entries older than d are treated as
// misses but stay stored until a later fetch overwrites them. A zero or
// negative d (the default) means entries never go stale.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// WithName sets the name used in log lines and passed to the Observer.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithLogger sets the logger. Cache activity is logged at trace level.
func WithLogger(l logger.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithClock replaces time.Now for storing and aging entries.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithObserver sets the Observer notified of hits, misses, joins and errors.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}
