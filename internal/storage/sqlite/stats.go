package sqlite

import (
	"database/sql"
	"time"

	"github.com/avelk/chartrelay/internal/storage/models"
)

// GetServeStats aggregates the serve history in a single query pass.
func (s *Storage) GetServeStats() (*models.ServeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	stats := &models.ServeStats{}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(bytes), 0),
			COALESCE(SUM(cache_hit), 0),
			COALESCE(SUM(CASE WHEN status_code = 404 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status_code >= 500 THEN 1 ELSE 0 END), 0)
		FROM serve_logs
	`).Scan(&stats.TotalRequests, &stats.TotalBytes, &stats.CacheHits,
		&stats.NotFoundCount, &stats.ErrorCount)
	if err != nil {
		return nil, err
	}

	// Last successful serve, if any
	var servedAt time.Time
	var etag string
	err = s.db.QueryRow(`
		SELECT created_at, COALESCE(etag, '')
		FROM serve_logs WHERE status_code = 200
		ORDER BY created_at DESC LIMIT 1
	`).Scan(&servedAt, &etag)
	switch err {
	case nil:
		stats.LastServedAt = &servedAt
		stats.LastETag = etag
	case sql.ErrNoRows:
		// No successful serves yet
	default:
		return nil, err
	}

	return stats, nil
}
