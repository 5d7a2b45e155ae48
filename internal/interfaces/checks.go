package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/university/internal/audit"
	"github.com/mrlokans/university/internal/database"
	"github.com/mrlokans/university/internal/database/books"
	"github.com/mrlokans/university/internal/database/classrooms"
	"github.com/mrlokans/university/internal/database/students"
	"github.com/mrlokans/university/internal/database/subjects"
	"github.com/mrlokans/university/internal/editor"
	"github.com/mrlokans/university/internal/exporters"
	"github.com/mrlokans/university/internal/http"
	"github.com/mrlokans/university/internal/metrics"
	"github.com/mrlokans/university/internal/scheduler"
	"github.com/mrlokans/university/internal/search"
	"github.com/mrlokans/university/internal/storage"
	"github.com/mrlokans/university/internal/storage/providers/local"
	"github.com/mrlokans/university/internal/storage/providers/s3"
	"github.com/mrlokans/university/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Record store consumed by search, the records API and snapshots
var _ search.Store = (*database.Store)(nil)
var _ http.RecordStore = (*database.Store)(nil)
var _ exporters.SnapshotReader = (*database.Store)(nil)

// Editor repositories
var _ editor.StudentStore = (*students.Repository)(nil)
var _ editor.SubjectStore = (*subjects.Repository)(nil)
var _ editor.BookStore = (*books.Repository)(nil)
var _ editor.ClassroomStore = (*classrooms.Repository)(nil)

// =============================================================================
// Observers
// =============================================================================

var _ search.Observer = (*audit.Service)(nil)
var _ search.Observer = (*metrics.Metrics)(nil)
var _ editor.Observer = (*audit.Service)(nil)
var _ editor.Observer = (*metrics.Metrics)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.TaskEnqueuer = (*tasks.Client)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.JobRunner = (*scheduler.MaintenanceScheduler)(nil)

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.EditorSweeper = (*editor.Editor)(nil)
var _ tasks.SweepRecorder = (*metrics.Metrics)(nil)
var _ http.SessionCounter = (*editor.Editor)(nil)

// =============================================================================
// Snapshot Exports
// =============================================================================

var _ exporters.Exporter = (*exporters.SnapshotExporter)(nil)
var _ http.SnapshotStore = (*exporters.SnapshotExporter)(nil)

var _ storage.Client = (*local.Client)(nil)
var _ storage.Client = (*s3.Client)(nil)
