package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/ideas/internal/ideas/infrastructure/upstream"
)

// Forwarder fetches a page from the content API and returns its raw body.
type Forwarder interface {
	Forward(ctx context.Context, p upstream.Params) ([]byte, error)
}

// IdeasHandler serves GET /api/ideas.
type IdeasHandler struct {
	forwarder Forwarder
	logger    *slog.Logger
}

// IdeasHandlerConfig holds dependencies for the ideas handler.
type IdeasHandlerConfig struct {
	Forwarder Forwarder
	Logger    *slog.Logger
}

// NewIdeasHandler creates a new ideas handler.
func NewIdeasHandler(cfg IdeasHandlerConfig) *IdeasHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &IdeasHandler{forwarder: cfg.Forwarder, logger: cfg.Logger}
}

// List handles GET /api/ideas?page_number=&page_size=&sort=
//
// Parameters are forwarded verbatim, with defaults for missing ones. The
// upstream body is relayed unchanged; any failure becomes a 500 carrying
// the error message.
func (h *IdeasHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := upstream.Params{
		PageNumber: q.Get("page_number"),
		PageSize:   q.Get("page_size"),
		Sort:       q.Get("sort"),
	}.WithDefaults()

	body, err := h.forwarder.Forward(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to fetch ideas from upstream",
			"page_number", params.PageNumber,
			"page_size", params.PageSize,
			"sort", params.Sort,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}
