package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"statuspulse/config"
)

var (
	ErrKeyNotFound = redis.Nil
)

type Client struct {
	rdb       *redis.Client
	statusTTL time.Duration
}

// New connects and pings. statusTTL bounds how long a cached latest status
// stays readable, so it should match the overview lookback window.
func New(ctx context.Context, cfg *config.RedisConfig, statusTTL time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	// Timeouts
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout

	// Pool tuning
	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns

	// Connection lifecycle
	opt.ConnMaxLifetime = cfg.ConnMaxLifetime
	opt.ConnMaxIdleTime = cfg.ConnMaxIdleTime

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb, statusTTL: statusTTL}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
