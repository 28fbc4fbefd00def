// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string
	Server        ServerConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Intake        IntakeConfig
	Notifications NotificationConfig
	Profile       ProfileConfig
	RateLimit     RateLimitConfig
	Janitor       JanitorConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// CORSAllowedOrigins restricts cross-origin callers. Empty reflects any origin.
	CORSAllowedOrigins []string
}

// RedisConfig is optional; an empty URL runs the service without Redis.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
	CacheTTL time.Duration
	// IdempotencyTTL is how long replayable responses are kept.
	IdempotencyTTL time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type IntakeConfig struct {
	SubmitDelay time.Duration
	IdleTimeout time.Duration
}

type NotificationConfig struct {
	TTL        time.Duration
	MaxEntries int
}

type ProfileConfig struct {
	HandshakeDelay time.Duration
	DossierBaseURL string
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

type JanitorConfig struct {
	Schedule string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from the environment, after applying any .env
// file found in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),

			CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS"),
		},
		Redis: RedisConfig{
			URL:      normalizeRedisURL(getEnv("REDIS_URL", "")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			CacheTTL: getDurationEnv("REDIS_CACHE_TTL", 5*time.Minute),

			IdempotencyTTL: getDurationEnv("REDIS_IDEMPOTENCY_TTL", 10*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "change-this-secret"),
			Expiration: getDurationEnv("JWT_EXPIRATION", 12*time.Hour),
		},
		Intake: IntakeConfig{
			SubmitDelay: getDurationEnv("INTAKE_SUBMIT_DELAY", 2500*time.Millisecond),
			IdleTimeout: getDurationEnv("INTAKE_IDLE_TIMEOUT", 2*time.Hour),
		},
		Notifications: NotificationConfig{
			TTL:        getDurationEnv("NOTIFY_TTL", 24*time.Hour),
			MaxEntries: getIntEnv("NOTIFY_MAX_ENTRIES", 50),
		},
		Profile: ProfileConfig{
			HandshakeDelay: getDurationEnv("LINK_HANDSHAKE_DELAY", 1500*time.Millisecond),
			DossierBaseURL: getEnv("DOSSIER_BASE_URL", "https://zap.gg/u/"),
		},
		RateLimit: RateLimitConfig{
			Limit:  getIntEnv("RATE_LIMIT_REQUESTS", 120),
			Window: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Janitor: JanitorConfig{
			Schedule: getEnv("JANITOR_SCHEDULE", "@every 1m"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.URL) != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeRedisURL(url string) string {
	// Strip redis:// or redis+tls:// scheme if present
	if strings.HasPrefix(url, "redis+tls://") {
		return url[len("redis+tls://"):]
	}
	if strings.HasPrefix(url, "redis://") {
		return url[len("redis://"):]
	}
	return url
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
