package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/ideas/pkg/observability"
)

// requestID reuses the caller's X-Request-ID or assigns one, and echoes it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), r.Header.Get(observability.RequestIDHeader))
		w.Header().Set(observability.RequestIDHeader, observability.RequestIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// unmatchedRoute tags requests no route matched, keeping metric keys bounded.
const unmatchedRoute = "unmatched"

// routeOf returns the ServeMux pattern that served r. The mux sets it on the
// request it was handed, so it is read after next has run.
func routeOf(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	return r.Pattern
}

// accessLog logs each request and counts it by route and status.
func accessLog(next http.Handler, logger *slog.Logger, metrics observability.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		status := strconv.Itoa(rec.status)
		route := routeOf(r)
		metrics.Counter(observability.MetricHTTPRequests, 1,
			observability.T("route", route),
			observability.T(observability.StatusKey, status),
		)
		metrics.Timing(observability.MetricOperationDuration, duration,
			observability.T("operation", "http "+route),
		)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			observability.StatusKey, rec.status,
			observability.DurationKey, duration.Milliseconds(),
		)
	})
}
