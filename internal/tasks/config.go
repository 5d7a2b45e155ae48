package tasks

import "time"

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often backlite removes finished tasks. Default: 1h
	CleanupInterval time.Duration

	// AuditRetentionDays is used when a cleanup task carries no retention. Default: 90
	AuditRetentionDays int

	// EditorIdleTimeout is used when a sweep task carries no timeout. Default: 30m
	EditorIdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:            2,
		ReleaseAfter:       15 * time.Minute,
		CleanupInterval:    1 * time.Hour,
		AuditRetentionDays: 90,
		EditorIdleTimeout:  30 * time.Minute,
	}
}
