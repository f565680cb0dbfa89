package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	PostgresURL   string
	Redis         RedisConfig
	Kafka         KafkaConfig
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// AnonCookieKey signs the anonymous-identity cookie so clients cannot
	// forge someone else's visitor identity.
	AnonCookieKey string
	// AnonCookieTTL is how long an anonymous identity lives client-side.
	AnonCookieTTL time.Duration
	// SecureCookies marks cookies Secure; off only for local development.
	SecureCookies bool
	// LedgerTTL bounds attempt-ledger entries to the login session.
	LedgerTTL time.Duration
}

// RedisConfig captures Redis connection settings.
// An empty URL means Redis is not configured and the in-memory ledger is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures audit-pipeline settings.
// Empty brokers means audit events go to the log sink only.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := envOr("VOWCRAFT_ADDR", ":8080")

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	anonCookieKey := os.Getenv("ANON_COOKIE_KEY")
	if anonCookieKey == "" {
		anonCookieKey = "dev-anon-cookie-key"
	}

	cfg := Server{
		Addr:          addr,
		PostgresURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envOr("JWT_ISSUER", "vowcraft"),
		JWTAudience:   envOr("JWT_AUDIENCE", "vowcraft-api"),
		AnonCookieKey: anonCookieKey,
		AnonCookieTTL: envDurationOr("ANON_COOKIE_TTL", 30*24*time.Hour),
		SecureCookies: envOr("SECURE_COOKIES", "false") == "true",
		LedgerTTL:     envDurationOr("MIGRATION_LEDGER_TTL", 12*time.Hour),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "vowcraft.audit"),
		},
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
