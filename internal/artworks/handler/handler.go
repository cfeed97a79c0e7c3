package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"dataloaders/internal/artworks"
	dErrors "dataloaders/pkg/domain-errors"
	"dataloaders/pkg/platform/httputil"
	"dataloaders/pkg/platform/query"
	"dataloaders/pkg/platform/sentinel"
	"dataloaders/pkg/requestcontext"
)

const maxLimit = 100

// Client defines the artworks API operations the handler serves.
type Client interface {
	List(ctx context.Context, params artworks.ListParams) (*artworks.Paginated[[]artworks.Artwork], error)
	Get(ctx context.Context, id int) (*artworks.Response[artworks.Artwork], error)
	Search(ctx context.Context, q string) (*artworks.Paginated[[]artworks.SearchResult], error)
}

// Handler wires artworks endpoints to the artworks API wrapper.
type Handler struct {
	client Client
	logger *slog.Logger
}

// New constructs an artworks handler with its dependencies.
func New(client Client, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// Register mounts artworks endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/artworks", h.HandleList)
	r.Get("/artworks/search", h.HandleSearch)
	r.Get("/artworks/{id}", h.HandleGet)
}

// HandleList handles GET /artworks?page=&limit=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values := r.URL.Query()

	params := artworks.ListParams{Page: query.ParsePage(values["page"])}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 100"))
			return
		}
		params.Limit = limit
	}

	start := time.Now()
	page, err := h.client.List(ctx, params)
	if err != nil {
		h.writeError(ctx, w, "list", err)
		return
	}
	h.logger.DebugContext(ctx, "artworks page served",
		"request_id", requestcontext.RequestID(ctx),
		"page", params.Page,
		"count", len(page.Data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, page)
}

// HandleSearch handles GET /artworks/search?q=.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	term, ok := query.ParseSearch(r.URL.Query()["q"])
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "q must be given at most once"))
		return
	}

	results, err := h.client.Search(ctx, term)
	if err != nil {
		h.writeError(ctx, w, "search", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

// HandleGet handles GET /artworks/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "artwork id must be a number"))
		return
	}

	art, err := h.client.Get(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "get", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, art)
}

// writeError maps infrastructure errors from the API wrapper to domain codes.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var derr error
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		derr = dErrors.Wrap(err, dErrors.CodeNotFound, "artwork not found")
	case errors.Is(err, context.DeadlineExceeded):
		derr = dErrors.Wrap(err, dErrors.CodeTimeout, "artworks API timed out")
	case errors.Is(err, sentinel.ErrUnavailable), errors.Is(err, sentinel.ErrBadData):
		derr = dErrors.Wrap(err, dErrors.CodeBadGateway, "artworks API unavailable")
	default:
		derr = dErrors.Wrap(err, dErrors.CodeInternal, "artworks request failed")
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		h.logger.ErrorContext(ctx, "artworks request failed",
			"request_id", requestcontext.RequestID(ctx),
			"op", op,
			"error", err,
		)
	}
	httputil.WriteError(w, derr)
}
