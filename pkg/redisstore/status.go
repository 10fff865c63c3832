package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func statusKey(monitorID int) string {
	return fmt.Sprintf("monitor:status:%d", monitorID)
}

// StoreStatus records the latest reported status of a monitor. The key
// expires after the status TTL, after which the monitor reads as unknown.
func (c *Client) StoreStatus(ctx context.Context, monitorID int, status string, checkedAt time.Time) error {
	key := statusKey(monitorID)

	return retry(ctx, 2, func() error {
		pipe := c.rdb.TxPipeline()
		pipe.HSet(ctx, key, map[string]any{
			"status":     status,
			"checked_at": checkedAt.Unix(),
		})
		pipe.Expire(ctx, key, c.statusTTL)
		_, err := pipe.Exec(ctx)
		return err
	})
}

// GetStatuses returns the cached status of each monitor that has one.
func (c *Client) GetStatuses(ctx context.Context, monitorIDs []int) (map[int]string, error) {
	pipe := c.rdb.Pipeline()
	cmds := make(map[int]*redis.StringCmd, len(monitorIDs))
	for _, id := range monitorIDs {
		cmds[id] = pipe.HGet(ctx, statusKey(id), "status")
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	out := make(map[int]string, len(monitorIDs))
	for id, cmd := range cmds {
		s, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = s
	}
	return out, nil
}

func (c *Client) DelStatus(ctx context.Context, monitorID int) error {
	return c.rdb.Del(ctx, statusKey(monitorID)).Err()
}
