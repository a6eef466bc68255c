// Package upstream forwards listing queries to the remote content API.
package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/ideas/pkg/observability"
)

// Defaults applied to missing query parameters.
const (
	DefaultPageNumber = "1"
	DefaultPageSize   = "10"
	DefaultSort       = "-published_at"
)

// imageVariants are requested for every item.
var imageVariants = []string{"small_image", "medium_image"}

// Params are the proxy's query parameters, forwarded verbatim.
type Params struct {
	PageNumber string
	PageSize   string
	Sort       string
}

// WithDefaults fills empty fields.
func (p Params) WithDefaults() Params {
	if p.PageNumber == "" {
		p.PageNumber = DefaultPageNumber
	}
	if p.PageSize == "" {
		p.PageSize = DefaultPageSize
	}
	if p.Sort == "" {
		p.Sort = DefaultSort
	}
	return p
}

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// Forwarder issues the upstream request. It does not retry or cache.
type Forwarder struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	metrics observability.Metrics
}

// ForwarderConfig holds forwarder dependencies.
type ForwarderConfig struct {
	// BaseURL is the API root, e.g. https://suitmedia-backend.suitdev.com/api.
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
	Metrics    observability.Metrics
}

// NewForwarder creates a forwarder.
func NewForwarder(cfg ForwarderConfig) *Forwarder {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetrics{}
	}
	return &Forwarder{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  cfg.HTTPClient,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// URL builds the upstream request URL for p.
func (f *Forwarder) URL(p Params) string {
	p = p.WithDefaults()
	q := url.Values{}
	q.Set("page[number]", p.PageNumber)
	q.Set("page[size]", p.PageSize)
	for _, v := range imageVariants {
		q.Add("append[]", v)
	}
	q.Set("sort", p.Sort)
	return f.baseURL + "/ideas?" + q.Encode()
}

// Forward fetches one page and returns the upstream body unmodified.
func (f *Forwarder) Forward(ctx context.Context, p Params) ([]byte, error) {
	f.metrics.Counter(observability.MetricUpstreamRequests, 1)

	body, err := f.do(ctx, f.URL(p))
	if err != nil {
		f.metrics.Counter(observability.MetricUpstreamFailures, 1)
		return nil, err
	}
	return body, nil
}

func (f *Forwarder) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		f.logger.WarnContext(ctx, "upstream returned error status", "status", resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	return body, nil
}
