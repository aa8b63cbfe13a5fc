package config // redis.go wires the shared Redis client used for caching and rate limiting

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_* environment variables
// and verifies the connection with a short ping.  Redis is an accelerator
// here, not a dependency: on any failure the function logs a warning and
// returns nil, and callers treat a nil client as "no cache, no limiter".
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		host := os.Getenv("REDIS_HOST")
		port := os.Getenv("REDIS_PORT")
		if host == "" {
			host = "127.0.0.1"
		}
		if port == "" {
			port = "6379"
		}
		addr = host + ":" + port
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ redis unavailable at %s, continuing without cache: %v", addr, err)
		_ = client.Close()
		return nil
	}
	log.Printf("✅ connected to redis at %s", addr)
	return client
}
