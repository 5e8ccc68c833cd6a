package types

import "time"

// LogEntry is a request log captured by middleware before it is stored.
type LogEntry struct {
	Method       string
	URL          string
	RequestBody  string
	ResponseBody string
	ActorID      string
	StatusCode   int
	LatencyMs    int64
	CreatedAt    time.Time
}
