package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"dataloaders/internal/artworks"
	artworkshandler "dataloaders/internal/artworks/handler"
	"dataloaders/internal/platform/config"
	"dataloaders/internal/platform/httpclient"
	"dataloaders/internal/platform/httpserver"
	"dataloaders/internal/platform/logger"
	platformmetrics "dataloaders/internal/platform/metrics"
	"dataloaders/internal/platform/redis"
	"dataloaders/internal/profile/github"
	profilehandler "dataloaders/internal/profile/handler"
	profilemetrics "dataloaders/internal/profile/metrics"
	"dataloaders/internal/profile/service"
	"dataloaders/internal/profile/store"
	httptransport "dataloaders/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fixtures, err := loadFixtures(ctx, cfg.Fixtures, log)
	if err != nil {
		return err
	}

	outbound, err := httpclient.New(cfg.UpstreamTimeout)
	if err != nil {
		return err
	}

	platformMetrics := platformmetrics.New()
	gh := github.New(cfg.Profiles.APIURL,
		github.WithHTTPClient(outbound),
		github.WithToken(cfg.Profiles.APIToken),
	)
	profileService, err := service.New(gh, gh, fixtures,
		service.WithDelays(cfg.Profiles.ProfileDelay, cfg.Profiles.FollowersDelay),
		service.WithRemoteTimeout(cfg.Profiles.RemoteTimeout),
		service.WithLogger(log),
		service.WithObserver(profilemetrics.New()),
	)
	if err != nil {
		return err
	}

	artworkOpts := []artworks.Option{
		artworks.WithHTTPClient(outbound),
		artworks.WithLogger(log),
	}
	health := map[string]httptransport.HealthChecker{}
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		// The cache is optional; the API is still served uncached.
		log.Warn("redis unavailable, artworks cache disabled", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		artworkOpts = append(artworkOpts,
			artworks.WithCache(artworks.NewRedisCache(redisClient, cfg.Artworks.CacheTTL, platformMetrics)))
		health["redis"] = redisClient
	}
	artworksClient := artworks.New(cfg.Artworks.APIURL, artworkOpts...)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Metrics:  platformMetrics,
		Gatherer: prometheus.DefaultGatherer,
		Health:   health,
		Handlers: []httptransport.Registrar{
			profilehandler.New(profileService, log),
			artworkshandler.New(artworksClient, log),
		},
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting dataloaders", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadFixtures(ctx context.Context, cfg config.FixturesConfig, log *slog.Logger) (store.Fixtures, error) {
	if cfg.DatabaseURL == "" {
		return store.Defaults(), nil
	}
	db, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return store.Fixtures{}, err
	}
	defer db.Close()

	fixtures, err := store.LoadPostgres(ctx, db)
	if err != nil {
		return store.Fixtures{}, err
	}
	log.Info("loaded fixtures from postgres",
		"profiles", fixtures.Profiles.Len(),
		"followers", fixtures.Followers.Len(),
	)
	return fixtures, nil
}
