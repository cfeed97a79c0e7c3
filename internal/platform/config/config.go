package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Server    Server
	Profiles  ProfilesConfig
	Artworks  ArtworksConfig
	Redis     RedisConfig
	Fixtures  FixturesConfig
	LogLevel  slog.Level
	LogFormat string

	// UpstreamTimeout caps any single outbound API exchange. Fallback
	// lookups are bounded tighter by Profiles.RemoteTimeout.
	UpstreamTimeout time.Duration
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// ProfilesConfig configures the live profile source and both fallback fetchers.
type ProfilesConfig struct {
	APIURL         string
	APIToken       string
	ProfileDelay   time.Duration
	FollowersDelay time.Duration
	RemoteTimeout  time.Duration
}

// ArtworksConfig configures the artworks API wrapper.
type ArtworksConfig struct {
	APIURL   string
	CacheTTL time.Duration
}

// RedisConfig holds the optional response cache connection. An empty URL
// disables the cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FixturesConfig selects where static fallback tables come from. An empty
// DatabaseURL keeps the built-in tables.
type FixturesConfig struct {
	DatabaseURL string
}

// FromEnv builds the config from environment variables so main stays lean.
// Unparseable values fall back to their defaults.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getEnv("DATALOADERS_ADDR", ":8080"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Profiles: ProfilesConfig{
			APIURL:         getEnv("PROFILE_API_URL", "https://api.github.com"),
			APIToken:       os.Getenv("PROFILE_API_TOKEN"),
			ProfileDelay:   getDuration("PROFILE_MIN_DELAY", 500*time.Millisecond),
			FollowersDelay: getDuration("FOLLOWERS_MIN_DELAY", 2*time.Second),
			RemoteTimeout:  getDuration("REMOTE_TIMEOUT", 2*time.Second),
		},
		Artworks: ArtworksConfig{
			APIURL:   getEnv("ARTWORKS_API_URL", "https://api.artic.edu/api/v1/artworks"),
			CacheTTL: getDuration("ARTWORKS_CACHE_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Fixtures: FixturesConfig{
			DatabaseURL: os.Getenv("FIXTURES_DATABASE_URL"),
		},
		LogLevel:        parseLevel(os.Getenv("LOG_LEVEL")),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
