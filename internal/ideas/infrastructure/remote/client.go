// Package remote is the listing's data source backed by the query proxy.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
	"github.com/felixgeelhaar/ideas/pkg/observability"
)

// BreakerConfig holds circuit breaker settings for the client.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// ClientConfig holds client dependencies.
type ClientConfig struct {
	// BaseURL is the proxy root, e.g. http://localhost:3001.
	BaseURL      string
	HTTPClient   *http.Client
	Timeout      time.Duration
	DefaultImage string
	Breaker      BreakerConfig
	Logger       *slog.Logger
	Metrics      observability.Metrics
}

// Client fetches listing pages from the proxy's /api/ideas endpoint.
type Client struct {
	baseURL      string
	http         *http.Client
	defaultImage string
	breaker      *gobreaker.CircuitBreaker[domain.Page]
	logger       *slog.Logger
	metrics      observability.Metrics
}

var _ domain.DataSource = (*Client)(nil)

// NewClient creates a client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetrics{}
	}
	if cfg.DefaultImage == "" {
		cfg.DefaultImage = domain.DefaultImage
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         cfg.HTTPClient,
		defaultImage: cfg.DefaultImage,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}
	if cfg.Breaker.Enabled {
		c.breaker = c.newBreaker(cfg.Breaker)
	}
	return c
}

func (c *Client) newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[domain.Page] {
	settings := gobreaker.Settings{
		Name:        "ideas-source",
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		// A superseded reload cancels its request; that says nothing about
		// the proxy's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return gobreaker.NewCircuitBreaker[domain.Page](settings)
}

// FetchPage requests one page from the proxy.
func (c *Client) FetchPage(ctx context.Context, q domain.Query) (domain.Page, error) {
	c.metrics.Counter(observability.MetricSourceFetches, 1)

	if c.breaker == nil {
		page, err := c.fetch(ctx, q)
		if err != nil {
			c.metrics.Counter(observability.MetricSourceFailures, 1)
		}
		return page, err
	}

	page, err := c.breaker.Execute(func() (domain.Page, error) {
		return c.fetch(ctx, q)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.metrics.Counter(observability.MetricSourceCircuitOpen, 1)
			return domain.Page{}, domain.ErrCircuitOpen
		}
		c.metrics.Counter(observability.MetricSourceFailures, 1)
		return domain.Page{}, err
	}
	return page, nil
}

// URL builds the proxy request URL for q.
func (c *Client) URL(q domain.Query) string {
	v := url.Values{}
	v.Set("page_number", strconv.Itoa(q.PageNumber))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	v.Set("sort", q.Sort.Param())
	return c.baseURL + "/api/ideas?" + v.Encode()
}

func (c *Client) fetch(ctx context.Context, q domain.Query) (domain.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(q), nil)
	if err != nil {
		return domain.Page{}, err
	}
	req.Header.Set("Accept", "application/json")
	if id := observability.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(observability.RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Page{}, decodeError(resp)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Page{}, fmt.Errorf("decode ideas response: %w", err)
	}

	items := make([]domain.Item, 0, len(body.Data))
	for _, w := range body.Data {
		items = append(items, w.toItem(c.defaultImage))
	}
	return domain.Page{Items: items, TotalCount: body.Meta.Total}, nil
}

// decodeError turns a proxy error response into an error, using the
// {"error": "..."} message when present.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return fmt.Errorf("proxy returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("proxy returned %d", resp.StatusCode)
}
