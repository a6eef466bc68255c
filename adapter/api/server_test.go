package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ideas/internal/ideas/infrastructure/upstream"
	"github.com/felixgeelhaar/ideas/pkg/observability"
)

type mockForwarder struct {
	body   []byte
	err    error
	params []upstream.Params
}

func (m *mockForwarder) Forward(ctx context.Context, p upstream.Params) ([]byte, error) {
	m.params = append(m.params, p)
	return m.body, m.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(fwd Forwarder) (*Server, *observability.InMemoryMetrics) {
	metrics := observability.NewInMemoryMetrics()
	handler := NewIdeasHandler(IdeasHandlerConfig{Forwarder: fwd, Logger: quietLogger()})
	return NewServer(DefaultServerConfig(), handler, metrics, quietLogger()), metrics
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIdeasHandler_List(t *testing.T) {
	t.Run("relays upstream body verbatim", func(t *testing.T) {
		const body = `{"data":[{"id":1}],"meta":{"total":1},"links":{"next":null}}`
		fwd := &mockForwarder{body: []byte(body)}
		s, _ := newTestServer(fwd)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/ideas?page_number=2&page_size=20&sort=published_at", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, body, rec.Body.String())
		require.Len(t, fwd.params, 1)
		assert.Equal(t, upstream.Params{PageNumber: "2", PageSize: "20", Sort: "published_at"}, fwd.params[0])
	})

	t.Run("applies defaults", func(t *testing.T) {
		fwd := &mockForwarder{body: []byte(`{}`)}
		s, _ := newTestServer(fwd)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/ideas", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, fwd.params, 1)
		assert.Equal(t, upstream.Params{PageNumber: "1", PageSize: "10", Sort: "-published_at"}, fwd.params[0])
	})

	t.Run("forwards values verbatim", func(t *testing.T) {
		fwd := &mockForwarder{body: []byte(`{}`)}
		s, _ := newTestServer(fwd)

		serve(s, httptest.NewRequest(http.MethodGet, "/api/ideas?page_number=abc&page_size=-1", nil))

		require.Len(t, fwd.params, 1)
		assert.Equal(t, "abc", fwd.params[0].PageNumber)
		assert.Equal(t, "-1", fwd.params[0].PageSize)
	})

	t.Run("upstream failure becomes 500", func(t *testing.T) {
		fwd := &mockForwarder{err: errors.New("request failed with status code 502")}
		s, metrics := newTestServer(fwd)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/ideas", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"error": "request failed with status code 502"}, body)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricHTTPRequests,
			observability.T("route", "GET /api/ideas"), observability.T(observability.StatusKey, "500")))
	})

	t.Run("unreachable upstream becomes 500", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		base := dead.URL
		dead.Close()

		fwd := upstream.NewForwarder(upstream.ForwarderConfig{BaseURL: base, Logger: quietLogger()})
		s, _ := newTestServer(fwd)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/ideas?page_size=20&sort=-published_at", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	})

	t.Run("end to end through the forwarder", func(t *testing.T) {
		const body = `{"data":[],"meta":{"total":0}}`
		var gotRawQuery string
		upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ideas", r.URL.Path)
			gotRawQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(body))
		}))
		defer upstreamSrv.Close()

		fwd := upstream.NewForwarder(upstream.ForwarderConfig{BaseURL: upstreamSrv.URL})
		s, _ := newTestServer(fwd)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/ideas?page_number=4", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, body, rec.Body.String())
		assert.Contains(t, gotRawQuery, "page%5Bnumber%5D=4")
		assert.Contains(t, gotRawQuery, "append%5B%5D=small_image")
		assert.Contains(t, gotRawQuery, "append%5B%5D=medium_image")
	})
}

func TestServer_CORS(t *testing.T) {
	s, _ := newTestServer(&mockForwarder{body: []byte(`{}`)})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ideas", nil)
		req.Header.Set("Origin", "http://localhost:5173")

		rec := serve(s, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/ideas", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)

		rec := serve(s, req)

		assert.Less(t, rec.Code, 300)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_RequestID(t *testing.T) {
	s, _ := newTestServer(&mockForwarder{body: []byte(`{}`)})

	t.Run("echoes caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(observability.RequestIDHeader, "abc-123")

		rec := serve(s, req)

		assert.Equal(t, "abc-123", rec.Header().Get(observability.RequestIDHeader))
	})

	t.Run("generates one", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.NotEmpty(t, rec.Header().Get(observability.RequestIDHeader))
	})
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(&mockForwarder{body: []byte(`{}`)})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["time"])

	serve(s, httptest.NewRequest(http.MethodGet, "/api/ideas", nil))

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var snap observability.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, int64(1), snap.Counters["ideas.http.requests:route=GET /api/ideas:status=200"])
}

func TestServer_UnknownRoute(t *testing.T) {
	s, _ := newTestServer(&mockForwarder{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/other", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/ideas", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_MetricKeysBounded(t *testing.T) {
	s, metrics := newTestServer(&mockForwarder{body: []byte(`{}`)})

	for i := 0; i < 500; i++ {
		serve(s, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/junk/%d", i), nil))
		serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	}

	snap := metrics.Snapshot()
	assert.Len(t, snap.Counters, 2)
	assert.Len(t, snap.Timings, 2)
	assert.Equal(t, int64(500), snap.Counters["ideas.http.requests:route=unmatched:status=404"])
	assert.Equal(t, int64(500), snap.Counters["ideas.http.requests:route=GET /health:status=200"])
	assert.Equal(t, 500, metrics.GetTiming(observability.MetricOperationDuration,
		observability.T("operation", "http GET /health")).Count)
}
