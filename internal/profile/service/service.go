package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"dataloaders/internal/fallback"
	"dataloaders/internal/profile/models"
	"dataloaders/internal/profile/store"
	dErrors "dataloaders/pkg/domain-errors"
	"dataloaders/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ProfileSource,FollowerSource

// ProfileSource is the live source for profile info.
type ProfileSource interface {
	Profile(ctx context.Context, id string) (models.Profile, error)
}

// FollowerSource is the live source for follower counts.
type FollowerSource interface {
	FollowerCount(ctx context.Context, id string) (string, error)
}

// Demo delays: the profile card appears after half a second, the follower
// count after two.
const (
	DefaultProfileDelay   = 500 * time.Millisecond
	DefaultFollowersDelay = 2 * time.Second
	DefaultRemoteTimeout  = 2 * time.Second
)

const tracerName = "dataloaders/internal/profile/service"

// Service resolves profile page data through delayed-fallback fetchers.
type Service struct {
	profiles  *fallback.Fetcher[models.Profile]
	followers *fallback.Fetcher[string]
	logger    *slog.Logger
	tracer    trace.Tracer
}

type options struct {
	profileDelay   time.Duration
	followersDelay time.Duration
	remoteTimeout  time.Duration
	logger         *slog.Logger
	observer       fallback.Observer
	tracer         trace.Tracer
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithObserver(observer fallback.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithDelays sets the minimum display delay for each lookup.
func WithDelays(profile, followers time.Duration) Option {
	return func(o *options) {
		o.profileDelay = profile
		o.followersDelay = followers
	}
}

// WithRemoteTimeout bounds every live lookup.
func WithRemoteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.remoteTimeout = d
	}
}

// New wires both fetchers. The fixtures are shared read-only by every call.
func New(profiles ProfileSource, followers FollowerSource, fixtures store.Fixtures, opts ...Option) (*Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile source is required")
	}
	if followers == nil {
		return nil, fmt.Errorf("follower source is required")
	}

	o := options{
		profileDelay:   DefaultProfileDelay,
		followersDelay: DefaultFollowersDelay,
		remoteTimeout:  DefaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	profileFetcher, err := fallback.NewFetcher("profile", profiles.Profile, fixtures.Profiles,
		fallback.WithMinDelay(o.profileDelay),
		fallback.WithRemoteTimeout(o.remoteTimeout),
		fallback.WithLogger(o.logger),
		fallback.WithObserver(o.observer),
	)
	if err != nil {
		return nil, fmt.Errorf("build profile fetcher: %w", err)
	}
	followerFetcher, err := fallback.NewFetcher("followers", followers.FollowerCount, fixtures.Followers,
		fallback.WithMinDelay(o.followersDelay),
		fallback.WithRemoteTimeout(o.remoteTimeout),
		fallback.WithLogger(o.logger),
		fallback.WithObserver(o.observer),
	)
	if err != nil {
		return nil, fmt.Errorf("build follower fetcher: %w", err)
	}

	return &Service{
		profiles:  profileFetcher,
		followers: followerFetcher,
		logger:    o.logger,
		tracer:    o.tracer,
	}, nil
}

// ProfileInfo resolves the profile card for id.
func (s *Service) ProfileInfo(ctx context.Context, id string) (*models.ProfileInfo, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	ctx, span := s.startSpan(ctx, "profile.ProfileInfo", id)
	defer span.End()

	out, err := s.profiles.Fetch(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "profile not found")
	}
	span.SetAttributes(attribute.String("lookup.source", string(out.Source)))

	return &models.ProfileInfo{ID: id, Profile: out.Value, Source: out.Source}, nil
}

// FollowerCount resolves the follower count for id.
func (s *Service) FollowerCount(ctx context.Context, id string) (*models.Followers, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	ctx, span := s.startSpan(ctx, "profile.FollowerCount", id)
	defer span.End()

	out, err := s.followers.Fetch(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "follower count not found")
	}
	span.SetAttributes(attribute.String("lookup.source", string(out.Source)))

	return &models.Followers{ID: id, Count: out.Value, Source: out.Source}, nil
}

// Overview loads the profile card and follower count concurrently, the way
// the profile page's loaders run side by side.
func (s *Service) Overview(ctx context.Context, id string) (*models.Overview, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	ctx, span := s.startSpan(ctx, "profile.Overview", id)
	defer span.End()

	var (
		profile   *models.ProfileInfo
		followers *models.Followers
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.ProfileInfo(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		followers, err = s.FollowerCount(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "overview failed")
		return nil, err
	}

	return &models.Overview{ID: id, Profile: *profile, Followers: *followers}, nil
}

func (s *Service) startSpan(ctx context.Context, name, id string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("profile.id", id),
		attribute.String("request.id", requestcontext.RequestID(ctx)),
	))
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error, message string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	if errors.Is(err, fallback.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, message)
	}
	s.logger.ErrorContext(ctx, "profile lookup failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "profile lookup failed")
}

func normalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "profile id is required")
	}
	return id, nil
}
