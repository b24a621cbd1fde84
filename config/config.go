// Package config loads the settings for the hn client and CLI.
//
// Values are layered: built-in defaults, then an optional YAML file, then an
// optional dotenv file, then the process environment, and finally any CLI
// flags the caller applies. Every environment key is prefixed with HN_.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agentuity/go-hn/hn"
	"github.com/agentuity/go-hn/logger"
	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that reads and writes the short form used in
// config files and env vars, for example 90s, 2m or 1d.
type Duration time.Duration

func (d Duration) String() string {
	return str2duration.String(time.Duration(d))
}

// ParseDuration parses s into a Duration.
func ParseDuration(s string) (Duration, error) {
	v, err := str2duration.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return Duration(v), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q at line %d: %w", s, value.Line, err)
	}
	*d = v
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Config holds the client and CLI settings.
type Config struct {
	BaseURL      string   `yaml:"base_url"`
	SearchURL    string   `yaml:"search_url"`
	FeedTTL      Duration `yaml:"feed_ttl"`
	Concurrency  int      `yaml:"concurrency"`
	Timeout      Duration `yaml:"timeout"`
	LogLevel     string   `yaml:"log_level"`
	OTLPEndpoint string   `yaml:"otlp_endpoint,omitempty"`
	OTLPToken    string   `yaml:"otlp_token,omitempty"`
	MetricsAddr  string   `yaml:"metrics_addr,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:     hn.DefaultBaseURL,
		SearchURL:   hn.DefaultSearchURL,
		FeedTTL:     Duration(hn.FeedTTL),
		Concurrency: hn.DefaultConcurrency,
		Timeout:     Duration(15 * time.Second),
		LogLevel:    "info",
	}
}

// Level returns the parsed log level.
func (c Config) Level() logger.LogLevel {
	return logger.ParseLevel(c.LogLevel)
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.FeedTTL < 0 {
		return fmt.Errorf("feed_ttl must not be negative, got %s", c.FeedTTL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// DefaultPath returns the config file looked up when none is given,
// $XDG_CONFIG_HOME/hn/config.yaml or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hn", "config.yaml")
}

type loadOptions struct {
	file     string
	required bool
	envFile  string
	lookup   func(string) (string, bool)
}

type LoadOption func(*loadOptions)

// WithFile reads path, which must exist.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.file = path
		o.required = true
	}
}

// WithOptionalFile reads path if it exists.
func WithOptionalFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.file = path
		o.required = false
	}
}

// WithEnvFile reads HN_ assignments from a dotenv file if it exists.
func WithEnvFile(path string) LoadOption {
	return func(o *loadOptions) { o.envFile = path }
}

// WithLookup replaces os.LookupEnv as the source of environment values.
func WithLookup(fn func(string) (string, bool)) LoadOption {
	return func(o *loadOptions) {
		if fn != nil {
			o.lookup = fn
		}
	}
}

// Load builds a Config from the defaults and the given sources and
// validates it.
func Load(opts ...LoadOption) (Config, error) {
	o := loadOptions{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := Default()

	if o.file != "" {
		if err := cfg.readFile(o.file); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || o.required {
				return Config{}, err
			}
		}
	}

	lookup := o.lookup
	if o.envFile != "" {
		lines, err := ParseEnvFile(o.envFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read env file: %s. %w", o.envFile, err)
		}
		fileVars := make(map[string]string, len(lines))
		for _, l := range lines {
			fileVars[l.Key] = l.Val
		}
		lookup = func(key string) (string, bool) {
			if v, ok := o.lookup(key); ok {
				return v, true
			}
			v, ok := fileVars[key]
			return v, ok
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	of, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %s. %w", path, err)
	}
	defer of.Close()
	dec := yaml.NewDecoder(of)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode YAML config file: %s. %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}

	str("HN_BASE_URL", &c.BaseURL)
	str("HN_SEARCH_URL", &c.SearchURL)
	str("HN_LOG_LEVEL", &c.LogLevel)
	str("HN_OTLP_ENDPOINT", &c.OTLPEndpoint)
	str("HN_OTLP_TOKEN", &c.OTLPToken)
	str("HN_METRICS_ADDR", &c.MetricsAddr)
	if err := dur("HN_FEED_TTL", &c.FeedTTL); err != nil {
		return err
	}
	if err := dur("HN_TIMEOUT", &c.Timeout); err != nil {
		return err
	}
	if v, ok := lookup("HN_CONCURRENCY"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid HN_CONCURRENCY %q: %w", v, err)
		}
		c.Concurrency = n
	}
	return nil
}

// Save writes c to path as YAML, creating the parent directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	of, err := os.Create(path)
	if err != nil {
		return err
	}
	defer of.Close()
	enc := yaml.NewEncoder(of)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return of.Close()
}
