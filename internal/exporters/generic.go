package exporters

import "context"

// Exporter writes one snapshot of the records to its destination.
type Exporter interface {
	Export(ctx context.Context) (ExportResult, error)
}

type ExportResult struct {
	Path                string `json:"path"`
	Format              string `json:"format"`
	Bytes               int    `json:"bytes"`
	StudentsProcessed   int    `json:"students_processed"`
	SubjectsProcessed   int    `json:"subjects_processed"`
	BooksProcessed      int    `json:"books_processed"`
	ClassroomsProcessed int    `json:"classrooms_processed"`
	SnapshotsPruned     int    `json:"snapshots_pruned"`
}
