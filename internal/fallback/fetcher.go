package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dataloaders/pkg/requestcontext"
)

// Defaults used when a Fetcher is built without explicit durations.
const (
	DefaultMinDelay      = 500 * time.Millisecond
	DefaultRemoteTimeout = 2 * time.Second
)

// Observer receives one call per resolved lookup. The metrics package
// implements it; nil observers are ignored.
type Observer interface {
	ObserveLookup(fetcher string, source Source, elapsed time.Duration)
	ObserveNotFound(fetcher string, elapsed time.Duration)
	ObserveRemoteAbsence(fetcher, reason string)
}

// Fetcher binds a remote call and a static table to fixed durations so
// callers resolve identifiers with a single argument.
type Fetcher[V any] struct {
	name          string
	remote        Remote[V]
	table         StaticTable[V]
	minDelay      time.Duration
	remoteTimeout time.Duration
	logger        *slog.Logger
	observer      Observer
}

type settings struct {
	minDelay      time.Duration
	remoteTimeout time.Duration
	logger        *slog.Logger
	observer      Observer
}

// Option configures a Fetcher.
type Option func(*settings)

// WithMinDelay sets the latency floor.
func WithMinDelay(d time.Duration) Option {
	return func(s *settings) {
		s.minDelay = d
	}
}

// WithRemoteTimeout bounds the remote call.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.remoteTimeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func WithObserver(observer Observer) Option {
	return func(s *settings) {
		s.observer = observer
	}
}

// NewFetcher builds a named Fetcher. The name labels logs and metrics.
func NewFetcher[V any](name string, remote Remote[V], table StaticTable[V], opts ...Option) (*Fetcher[V], error) {
	if name == "" {
		return nil, fmt.Errorf("fetcher name is required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote is required")
	}

	cfg := settings{
		minDelay:      DefaultMinDelay,
		remoteTimeout: DefaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	return &Fetcher[V]{
		name:          name,
		remote:        remote,
		table:         table,
		minDelay:      cfg.minDelay,
		remoteTimeout: cfg.remoteTimeout,
		logger:        cfg.logger,
		observer:      cfg.observer,
	}, nil
}

// Name returns the label the fetcher was built with.
func (f *Fetcher[V]) Name() string {
	return f.name
}

// Fetch resolves id with the same contract as the package-level Fetch.
func (f *Fetcher[V]) Fetch(ctx context.Context, id string) (Outcome[V], error) {
	r, err := fetch(ctx, id, f.remote, f.table, f.minDelay, f.remoteTimeout)

	if r.cause != nil {
		reason := Reason(r.cause)
		f.logger.DebugContext(ctx, "remote lookup absent, using static table",
			"request_id", requestcontext.RequestID(ctx),
			"fetcher", f.name,
			"id", id,
			"reason", reason,
			"error", r.cause,
		)
		if f.observer != nil {
			f.observer.ObserveRemoteAbsence(f.name, reason)
		}
	}

	if err != nil {
		f.logger.InfoContext(ctx, "lookup not found",
			"request_id", requestcontext.RequestID(ctx),
			"fetcher", f.name,
			"id", id,
			"duration_ms", r.outcome.Elapsed.Milliseconds(),
		)
		if f.observer != nil {
			f.observer.ObserveNotFound(f.name, r.outcome.Elapsed)
		}
		return r.outcome, err
	}

	if f.observer != nil {
		f.observer.ObserveLookup(f.name, r.outcome.Source, r.outcome.Elapsed)
	}
	return r.outcome, nil
}
