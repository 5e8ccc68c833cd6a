package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"subercraftex/config"

	goredis "github.com/redis/go-redis/v9"
)

const defaultQueueKey = "subercraftex:notifications"

// RedisQueue is a Queue backed by a redis list, so the worker may run in a
// separate process from the HTTP server.
type RedisQueue struct {
	rdb  *goredis.Client
	key  string
	poll time.Duration
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func NewRedisQueue(rdb *goredis.Client, key string) *RedisQueue {
	if key == "" {
		key = defaultQueueKey
	}
	return &RedisQueue{rdb: rdb, key: key, poll: 2 * time.Second}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	return q.rdb.LPush(ctx, q.key, payload).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	for {
		res, err := q.rdb.BRPop(ctx, q.poll, q.key).Result()
		switch {
		case errors.Is(err, goredis.Nil):
			if ctx.Err() != nil {
				return Job{}, ctx.Err()
			}
			continue
		case err != nil:
			if ctx.Err() != nil {
				return Job{}, ctx.Err()
			}
			if errors.Is(err, goredis.ErrClosed) {
				return Job{}, ErrQueueClosed
			}
			return Job{}, err
		}

		// BRPOP replies with [key, value].
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return Job{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}

// Len reports how many jobs are waiting.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
