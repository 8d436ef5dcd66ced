package clients

import (
	"context"
	"fmt"
	"strings"

	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *redis.Client
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(ctx context.Context, cfg *config.Redis) (*RedisClient, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	log.WithField("addr", opts.Addr).Info("Connecting to Redis...")
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Error("Failed to ping Redis")
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", models.ErrRedisConnection, err)
	}

	log.Infof("Connected to Redis at %s", opts.Addr)
	return &RedisClient{Client: client}, nil
}

func redisOptions(cfg *config.Redis) (*redis.Options, error) {
	if strings.Contains(cfg.Url, "://") {
		opts, err := redis.ParseURL(cfg.Url)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrRedisConnection, err)
		}
		if cfg.Password != "" {
			opts.Password = cfg.Password
		}
		return opts, nil
	}

	return &redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.Db,
	}, nil
}

func (r *RedisClient) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	if err := r.Client.Close(); err != nil {
		log.WithError(err).Error("Failed to close Redis connection")
		return err
	}
	log.Info("Redis connection closed")
	return nil
}
