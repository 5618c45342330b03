package infra

import "time"

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	ImagePath    string
	PollInterval time.Duration
	StartTime    time.Time
}

// New creates a new instance of infrastructure handlers.
func New(imagePath string, pollInterval time.Duration, startTime time.Time) *Handlers {
	return &Handlers{
		ImagePath:    imagePath,
		PollInterval: pollInterval,
		StartTime:    startTime,
	}
}
