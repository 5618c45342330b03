// Package storage provides the storage interface and implementations.
package storage

import (
	"github.com/avelk/chartrelay/internal/storage/models"
	"github.com/avelk/chartrelay/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	ServeLog   = models.ServeLog
	LogFilter  = models.LogFilter
	ServeStats = models.ServeStats
)

// Re-export errors from sqlite package
var (
	ErrInvalidInput  = sqlite.ErrInvalidInput
	ErrStorageClosed = sqlite.ErrStorageClosed
)

// Storage defines the interface for persistent data storage
type Storage interface {
	// Serve history operations
	LogServe(log *models.ServeLog) error
	GetServeLogs(filter models.LogFilter) ([]*models.ServeLog, error)
	DeleteServeLogs(olderThan string) (int64, error)
	GetServeStats() (*models.ServeStats, error)

	// Maintenance operations
	Close() error
}

// NewSQLiteStorage creates a new SQLite storage instance
// This is the main factory function for creating storage
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}
