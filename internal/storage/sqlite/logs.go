package sqlite

import (
	"fmt"
	"time"

	"github.com/avelk/chartrelay/internal/storage/models"
)

// LogServe stores a serve log entry
func (s *Storage) LogServe(log *models.ServeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if log.ID == "" {
		log.ID = generateID("srv")
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO serve_logs (id, request_id, status_code, bytes, content_type,
			etag, cache_hit, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.RequestID, log.StatusCode, log.Bytes, log.ContentType,
		log.ETag, boolToInt(log.CacheHit), log.ErrorMessage, log.DurationMs, log.CreatedAt)

	return err
}

// GetServeLogs retrieves serve logs with filtering
func (s *Storage) GetServeLogs(filter models.LogFilter) ([]*models.ServeLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT id, request_id, status_code, bytes, COALESCE(content_type, ''),
		COALESCE(etag, ''), cache_hit, COALESCE(error_message, ''), duration_ms, created_at
		FROM serve_logs WHERE 1=1`

	var args []interface{}

	if filter.StatusCode != nil {
		query += " AND status_code = ?"
		args = append(args, *filter.StatusCode)
	}
	if filter.StartDate != nil {
		query += " AND created_at >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND created_at <= ?"
		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ServeLog
	for rows.Next() {
		var log models.ServeLog
		var cacheHit int

		err := rows.Scan(&log.ID, &log.RequestID, &log.StatusCode, &log.Bytes, &log.ContentType,
			&log.ETag, &cacheHit, &log.ErrorMessage, &log.DurationMs, &log.CreatedAt)
		if err != nil {
			return nil, err
		}

		log.CacheHit = cacheHit == 1
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// DeleteServeLogs removes logs created before the given YYYY-MM-DD date.
func (s *Storage) DeleteServeLogs(olderThan string) (int64, error) {
	if _, err := time.Parse("2006-01-02", olderThan); err != nil {
		return 0, fmt.Errorf("%w: older_than %q is not YYYY-MM-DD", ErrInvalidInput, olderThan)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStorageClosed
	}

	result, err := s.db.Exec("DELETE FROM serve_logs WHERE DATE(created_at) < ?", olderThan)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
