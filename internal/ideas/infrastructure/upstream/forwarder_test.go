package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/felixgeelhaar/ideas/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_WithDefaults(t *testing.T) {
	assert.Equal(t, Params{PageNumber: "1", PageSize: "10", Sort: "-published_at"}, Params{}.WithDefaults())

	p := Params{PageNumber: "3", PageSize: "20", Sort: "published_at"}
	assert.Equal(t, p, p.WithDefaults())
}

func TestForwarder_URL(t *testing.T) {
	f := NewForwarder(ForwarderConfig{BaseURL: "https://api.test/api/"})

	raw := f.URL(Params{PageSize: "20", Sort: "-published_at"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/api/ideas", u.Path)
	q := u.Query()
	assert.Equal(t, "1", q.Get("page[number]"))
	assert.Equal(t, "20", q.Get("page[size]"))
	assert.Equal(t, "-published_at", q.Get("sort"))
	assert.Equal(t, []string{"small_image", "medium_image"}, q["append[]"])
}

func TestForwarder_Forward(t *testing.T) {
	t.Run("returns body verbatim", func(t *testing.T) {
		const body = `{"data":[{"id":1,"title":"x"}],"meta":{"total":1}}`
		var gotQuery url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))
		defer srv.Close()

		metrics := observability.NewInMemoryMetrics()
		f := NewForwarder(ForwarderConfig{BaseURL: srv.URL, Metrics: metrics})

		got, err := f.Forward(context.Background(), Params{PageNumber: "2"})

		require.NoError(t, err)
		assert.Equal(t, body, string(got))
		assert.Equal(t, "2", gotQuery.Get("page[number]"))
		assert.Equal(t, "10", gotQuery.Get("page[size]"))
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricUpstreamRequests))
		assert.Zero(t, metrics.GetCounter(observability.MetricUpstreamFailures))
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		metrics := observability.NewInMemoryMetrics()
		f := NewForwarder(ForwarderConfig{BaseURL: srv.URL, Metrics: metrics})

		_, err := f.Forward(context.Background(), Params{})

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Equal(t, "request failed with status code 404", err.Error())
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricUpstreamFailures))
	})

	t.Run("unreachable upstream is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		f := NewForwarder(ForwarderConfig{BaseURL: base})

		_, err := f.Forward(context.Background(), Params{})
		assert.Error(t, err)
	})
}
