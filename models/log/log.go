package log

import (
	"time"
)

// Log is one persisted HTTP request/response pair.
type Log struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Method       string    `gorm:"type:varchar(10);not null" json:"method"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	RequestBody  string    `gorm:"type:text" json:"request_body"`
	ResponseBody string    `gorm:"type:text" json:"response_body"`
	ActorID      string    `gorm:"type:varchar(64);index" json:"actor_id"`
	StatusCode   int       `gorm:"type:int;index" json:"status_code"`
	LatencyMs    int64     `json:"latency_ms"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Log) TableName() string {
	return "request_logs"
}
