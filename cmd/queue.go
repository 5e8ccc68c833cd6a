package cmd

import (
	"context"

	"subercraftex/config"
	"subercraftex/logger"
	"subercraftex/services/notification"
)

const memoryQueueSize = 256

// openQueue builds the configured notification queue. The returned close
// function releases the backing connection, if any.
func openQueue(ctx context.Context, rc config.RedisConfig) (notification.Queue, func(), error) {
	if rc.Queue != "redis" {
		logger.Info("using in-memory notification queue", "size", memoryQueueSize)
		return notification.NewMemoryQueue(memoryQueueSize), func() {}, nil
	}

	rdb, err := notification.NewRedisClient(ctx, rc)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using redis notification queue", "addr", rc.Addr)
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.Error("failed to close redis client", err)
		}
	}
	return notification.NewRedisQueue(rdb, ""), closeFn, nil
}
