package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/agentuity/go-hn/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the Firebase endpoint of the Hacker News API.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

const tracerName = "github.com/agentuity/go-hn/hn"

var (
	Version = "dev"
	Commit  = "unknown"
)

// UserAgent returns the User-Agent header sent with every request.
func UserAgent() string {
	gitSHA := Commit
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				gitSHA = setting.Value
			}
		}
	}
	return "go-hn/" + Version + " (" + gitSHA + ")"
}

// Client performs uncached reads against the API. Every call is one HTTP
// request; caching and coalescing live in FeedSource and ItemSource.
type Client struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger. Requests are logged at trace level and
// responses at debug level.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records request and cache metrics in m.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithTracerProvider sets the provider spans are created from. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// NewClient returns a Client for DefaultBaseURL unless overridden.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  http.DefaultClient,
		logger:  logger.NewConsoleLogger(logger.LevelNone),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FeedIDs fetches the id list of a feed.
func (c *Client) FeedIDs(ctx context.Context, kind FeedKind) ([]int, error) {
	endpoint, ok := kind.Endpoint()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeed, kind)
	}
	var ids []int
	if err := c.getJSON(ctx, "feed", c.baseURL+"/"+endpoint+".json", &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// Item fetches one item. A nil Item with a nil error means the API has no
// item with that id.
func (c *Client) Item(ctx context.Context, id int) (*Item, error) {
	var item *Item
	if err := c.getJSON(ctx, "item", c.baseURL+"/item/"+strconv.Itoa(id)+".json", &item); err != nil {
		return nil, err
	}
	return item, nil
}

func bodyPreview(body []byte, maxChars int) string {
	if len(body) > maxChars {
		return string(body[:maxChars]) + "[truncated, total: " + strconv.Itoa(len(body)) + " chars]"
	}
	return string(body)
}

// getJSON issues a GET for rawURL and decodes the body into out. endpoint
// labels metrics and spans.
func (c *Client) getJSON(ctx context.Context, endpoint string, rawURL string, out any) (err error) {
	const method = http.MethodGet
	ctx, span := c.tracer.Start(ctx, "hn."+endpoint, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.request.method", method), attribute.String("url.full", rawURL)))
	started := time.Now()
	status := 0
	defer func() {
		c.metrics.observeRequest(endpoint, status, err, time.Since(started))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	u, err := url.Parse(rawURL)
	if err != nil {
		return newError(ErrTransport, method, rawURL, 0, "", fmt.Errorf("error parsing url: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return newError(ErrTransport, method, rawURL, 0, "", fmt.Errorf("error creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent())

	log := c.logger.WithContext(ctx)
	log.Trace("sending request: %s %s", method, rawURL)
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return newError(ErrTransport, method, rawURL, 0, "", fmt.Errorf("error sending request: %w", err))
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	log.Debug("response status: %s %s", resp.Status, rawURL)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return newError(ErrTransport, method, rawURL, status, "", fmt.Errorf("error reading response body: %w", err))
	}
	if status < 200 || status > 299 {
		return newError(ErrTransport, method, rawURL, status, string(body), fmt.Errorf("request failed with status (%s)", resp.Status))
	}
	if err := json.Unmarshal(body, out); err != nil {
		log.Debug("undecodable response body: %s", bodyPreview(body, 200))
		return newError(ErrDecode, method, rawURL, status, string(body), fmt.Errorf("error JSON decoding response: %w", err))
	}
	return nil
}
