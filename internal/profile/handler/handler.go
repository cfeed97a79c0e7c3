package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dataloaders/internal/profile/models"
	dErrors "dataloaders/pkg/domain-errors"
	"dataloaders/pkg/platform/httputil"
	"dataloaders/pkg/requestcontext"
)

// Service defines the profile lookups the handler serves.
type Service interface {
	ProfileInfo(ctx context.Context, id string) (*models.ProfileInfo, error)
	FollowerCount(ctx context.Context, id string) (*models.Followers, error)
	Overview(ctx context.Context, id string) (*models.Overview, error)
}

// Handler wires profile endpoints to the profile service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a profile handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts profile endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/profiles/{id}", h.HandleProfile)
	r.Get("/profiles/{id}/followers", h.HandleFollowers)
	r.Get("/profiles/{id}/overview", h.HandleOverview)
}

// HandleProfile handles GET /profiles/{id}.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	info, err := h.service.ProfileInfo(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "profile", id, err)
		return
	}

	h.logger.InfoContext(ctx, "profile served",
		"request_id", requestcontext.RequestID(ctx),
		"profile_id", info.ID,
		"source", info.Source,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(info))
}

// HandleFollowers handles GET /profiles/{id}/followers.
func (h *Handler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	followers, err := h.service.FollowerCount(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "followers", id, err)
		return
	}

	h.logger.InfoContext(ctx, "follower count served",
		"request_id", requestcontext.RequestID(ctx),
		"profile_id", followers.ID,
		"source", followers.Source,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toFollowersResponse(followers))
}

// HandleOverview handles GET /profiles/{id}/overview.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	overview, err := h.service.Overview(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "overview", id, err)
		return
	}

	h.logger.InfoContext(ctx, "profile overview served",
		"request_id", requestcontext.RequestID(ctx),
		"profile_id", overview.ID,
		"profile_source", overview.Profile.Source,
		"followers_source", overview.Followers.Source,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toOverviewResponse(overview))
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, lookup, id string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "profile request failed",
			"request_id", requestcontext.RequestID(ctx),
			"lookup", lookup,
			"profile_id", id,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
