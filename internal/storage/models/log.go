package models

import "time"

// ServeLog represents one logged /resource request.
type ServeLog struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	StatusCode   int       `json:"status_code"`
	Bytes        int64     `json:"bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	CacheHit     bool      `json:"cache_hit"`
	ErrorMessage string    `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// LogFilter contains parameters for filtering serve logs.
type LogFilter struct {
	StatusCode *int
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// ServeStats aggregates the serve history.
type ServeStats struct {
	TotalRequests int64      `json:"total_requests"`
	TotalBytes    int64      `json:"total_bytes"`
	CacheHits     int64      `json:"cache_hits"`
	NotFoundCount int64      `json:"not_found_count"`
	ErrorCount    int64      `json:"error_count"`
	LastServedAt  *time.Time `json:"last_served_at,omitempty"`
	LastETag      string     `json:"last_etag,omitempty"`
}
