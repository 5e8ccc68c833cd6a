package logger

import (
	"context"

	log_model "subercraftex/models/log"
	"subercraftex/types"

	"gorm.io/gorm"
)

// AsyncLogger persists HTTP request logs off the request path.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
	}
}

// ProcessLog drains the channel until ctx is cancelled.
func (l *AsyncLogger) ProcessLog(ctx context.Context) {
	Info("request logger started")
	for {
		select {
		case <-ctx.Done():
			Info("request logger stopped")
			return
		case entry := <-l.channel:
			l.persist(entry)
		}
	}
}

func (l *AsyncLogger) persist(entry types.LogEntry) {
	row := log_model.Log{
		Method:       entry.Method,
		URL:          entry.URL,
		RequestBody:  entry.RequestBody,
		ResponseBody: entry.ResponseBody,
		ActorID:      entry.ActorID,
		StatusCode:   entry.StatusCode,
		LatencyMs:    entry.LatencyMs,
		CreatedAt:    entry.CreatedAt,
	}
	if err := l.db.Create(&row).Error; err != nil {
		Error("failed to store request log", err, "method", entry.Method, "url", entry.URL)
	}
}

// Log queues an entry, dropping it when the buffer is full.
func (l *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case l.channel <- entry:
	default:
		Warning("request log buffer full, dropping entry", "url", entry.URL)
	}
}
