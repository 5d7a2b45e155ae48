// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors find
// the extension points and see which concrete types satisfy them.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - search.Store: Association queries and deletes behind the search dispatcher (internal/search/dispatcher.go)
//   - http.RecordStore: Read-only record listings (internal/http/records.go)
//   - exporters.SnapshotReader: Full reads for snapshots (internal/exporters/snapshot.go)
//   - editor.StudentStore, SubjectStore, BookStore, ClassroomStore: Editor persistence (internal/editor/editor.go)
//
// All of them are implemented by *database.Store or its per-kind repositories.
//
// ## Observer Interfaces
//
//   - search.Observer: Notified after searches and delete attempts
//   - editor.Observer: Notified after save attempts
//
// The audit service and the Prometheus metrics implement both.
//
// ## Background Work Interfaces
//
//   - scheduler.Enqueuer / http.TaskEnqueuer: Hand tasks to the backlite queue (internal/tasks/client.go)
//   - http.TaskStatusReader: Task status lookups
//   - http.JobRunner: Maintenance job listing and manual runs (internal/scheduler/scheduler.go)
//   - tasks.AuditEventCleaner, tasks.EditorSweeper, tasks.SweepRecorder: Queue processors' dependencies
//
// ## Storage Interfaces
//
//   - storage.Client: Snapshot destinations (internal/storage/client.go)
//   - exporters.Exporter / http.SnapshotStore: Snapshot writing and listing
//
// # Adding a New Record Kind
//
// To add a fifth kind of record (e.g., lecturers):
//
//  1. Add the entity and a Kind constant in internal/entities/university.go
//
//  2. Create sub-package: internal/database/lecturers/
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add field rules in internal/validation/ and a case to the editor
//
//  4. Add a query shape to search.Dispatcher.Run and a Label
//
//  5. Add compile-time checks to checks.go
//
// # Adding a New Snapshot Destination
//
//  1. Implement storage.Client in internal/storage/providers/
//
//     type GCSClient struct {
//         bucket string
//     }
//
//     func (c *GCSClient) List(ctx context.Context, prefix string) ([]storage.FileInfo, error)
//     func (c *GCSClient) Upload(ctx context.Context, path string, content io.Reader) error
//     func (c *GCSClient) Delete(ctx context.Context, path string) error
//     func (c *GCSClient) Exists(ctx context.Context, path string) (bool, error)
//
//     var _ storage.Client = (*GCSClient)(nil)
//
//  2. Recognise its URL scheme in exporters.OpenDestination
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
