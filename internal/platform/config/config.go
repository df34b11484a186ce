package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the storefront.
type Server struct {
	Addr       string
	DataDir    string
	Namespaces []string
	AdminToken string

	// MinimumOrder is the settlement floor in currency units.
	MinimumOrder float64

	// LogChannel names the channel transcripts are appended to.
	LogChannel string

	// TranscriptFileThreshold is the transcript length above which the
	// transcript is delivered as an attached file instead of inline text.
	TranscriptFileThreshold int

	Redis    RedisConfig
	Postgres PostgresConfig
}

// RedisConfig controls the optional redis-backed session table.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig controls the optional postgres-backed catalog store.
type PostgresConfig struct {
	URL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SHOPFRONT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dataDir := os.Getenv("SHOPFRONT_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	namespaces := splitList(os.Getenv("SHOPFRONT_NAMESPACES"))
	if len(namespaces) == 0 {
		namespaces = []string{"2b2t", "constantiam"}
	}

	// No default: an unset token disables the admin surface entirely.
	adminToken := os.Getenv("SHOPFRONT_ADMIN_TOKEN")

	minOrder := envFloat("SHOPFRONT_MINIMUM_ORDER", 5.00)

	logChannel := os.Getenv("SHOPFRONT_LOG_CHANNEL")
	if logChannel == "" {
		logChannel = "ticket-logs"
	}

	return Server{
		Addr:                    addr,
		DataDir:                 dataDir,
		Namespaces:              namespaces,
		AdminToken:              adminToken,
		MinimumOrder:            minOrder,
		LogChannel:              logChannel,
		TranscriptFileThreshold: envInt("SHOPFRONT_TRANSCRIPT_FILE_THRESHOLD", 1900),
		Redis: RedisConfig{
			URL:          os.Getenv("SHOPFRONT_REDIS_URL"),
			PoolSize:     envInt("SHOPFRONT_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("SHOPFRONT_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("SHOPFRONT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("SHOPFRONT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("SHOPFRONT_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("SHOPFRONT_DATABASE_URL"),
		},
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
