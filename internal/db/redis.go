package db

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient dials redis from a URL and verifies the connection with a
// ping before handing it out. The server keeps the saved library and the
// per-route rate limit counters here, so a dead redis fails startup.
func NewRedisClient(ctx context.Context, url string, log *zap.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("connected to redis", zap.String("addr", opts.Addr))
	return client, nil
}
