package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required variables are enforced by must() and
// missing values abort startup; the rest have sensible local defaults.
type Config struct {
	Env            string        // application environment (dev/test/prod)
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // secret the auth service signs access tokens with
	RabbitURL      string        // AMQP endpoint for status events (optional)
	PolicyCacheTTL time.Duration // how long booking policies stay cached in Redis
	SweepInterval  time.Duration // period of the elapsed-reservation sweep; 0 disables it
	RateLimit      RateLimitConfig
}

// RateLimitConfig tunes the Redis token-bucket limiter on write endpoints.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillInterval time.Duration
	TTL            time.Duration
}

// Load reads the configuration from environment variables.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		RabbitURL:      os.Getenv("RABBITMQ_URL"), // empty -> local default
		PolicyCacheTTL: envDur("POLICY_CACHE_TTL", 30*time.Second),
		SweepInterval:  envDur("SWEEP_INTERVAL", 10*time.Minute),
		RateLimit: RateLimitConfig{
			Enabled:        envBool("RATE_LIMIT_ENABLED", true),
			Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
			RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
			TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		},
	}
}

// must retrieves a required environment variable or aborts startup.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "on":
		return true
	case "0", "false", "FALSE", "no", "off":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
