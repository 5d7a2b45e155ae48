package http

import (
	"github.com/mrlokans/university/internal/audit"
	"github.com/mrlokans/university/internal/database"
	"github.com/mrlokans/university/internal/editor"
	"github.com/mrlokans/university/internal/metrics"
	"github.com/mrlokans/university/internal/search"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Store    *database.Store
	Database *database.Database
	Editor   *editor.Editor

	// Notified after searches and delete attempts (audit, metrics)
	SearchObservers []search.Observer

	// Optional
	Audit   *audit.Service
	Metrics *metrics.Metrics

	// Browser sessions and CSRF. A nil SessionManager keeps sessions in memory.
	SessionManager *SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Snapshot exports (optional)
	Snapshots SnapshotStore

	// Task queue and scheduler (optional)
	TaskStatus TaskStatusReader
	TaskQueue  TaskEnqueuer
	Jobs       JobRunner

	// Application info
	Version string
}
