package redis

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"salon-chat/config"
)

// NewClient creates a Redis client from application config.
func NewClient(cfg *config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
