package exporters

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/mrlokans/university/internal/storage"
)

const snapshotPrefix = "snapshot-"

// SnapshotExporter encodes every record and uploads it to a storage client.
type SnapshotExporter struct {
	reader SnapshotReader
	client storage.Client
	prefix string
	format string
	keep   int
	now    func() time.Time
}

// NewSnapshotExporter creates an exporter writing under prefix. keep bounds
// how many snapshots are retained under the prefix; zero keeps all of them.
func NewSnapshotExporter(reader SnapshotReader, client storage.Client, prefix, format string, keep int) (*SnapshotExporter, error) {
	parsed, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return &SnapshotExporter{
		reader: reader,
		client: client,
		prefix: prefix,
		format: parsed,
		keep:   keep,
		now:    time.Now,
	}, nil
}

func (e *SnapshotExporter) Export(ctx context.Context) (ExportResult, error) {
	at := e.now()
	snap, err := BuildSnapshot(e.reader, at)
	if err != nil {
		return ExportResult{}, err
	}
	data, err := Encode(snap, e.format)
	if err != nil {
		return ExportResult{}, err
	}

	name, err := SnapshotName(at, e.format)
	if err != nil {
		return ExportResult{}, err
	}
	path := storage.JoinPath(e.prefix, name)
	if err := e.client.Upload(ctx, path, bytes.NewReader(data)); err != nil {
		return ExportResult{}, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	result := ExportResult{
		Path:                path,
		Format:              e.format,
		Bytes:               len(data),
		StudentsProcessed:   len(snap.Students),
		SubjectsProcessed:   len(snap.Subjects),
		BooksProcessed:      len(snap.Books),
		ClassroomsProcessed: len(snap.Classrooms),
	}

	if e.keep > 0 {
		pruned, err := e.prune(ctx)
		if err != nil {
			log.Printf("[EXPORT] Failed to prune old snapshots: %v", err)
		}
		result.SnapshotsPruned = pruned
	}

	log.Printf("[EXPORT] Wrote %s (%d bytes): %d students, %d subjects, %d books, %d classrooms",
		path, result.Bytes, result.StudentsProcessed, result.SubjectsProcessed, result.BooksProcessed, result.ClassroomsProcessed)
	return result, nil
}

// Snapshots lists the snapshots under the exporter's prefix, newest first.
func (e *SnapshotExporter) Snapshots(ctx context.Context) ([]storage.FileInfo, error) {
	listPrefix := storage.JoinPath(e.prefix, snapshotPrefix)
	files, err := e.client.List(ctx, listPrefix)
	if err != nil {
		return nil, err
	}
	files = storage.FilterFiles(files, func(f storage.FileInfo) bool {
		return strings.HasPrefix(f.Name, snapshotPrefix)
	})
	storage.SortNewestFirst(files)
	return files, nil
}

// Latest returns the most recent snapshot, or nil when none exist.
func (e *SnapshotExporter) Latest(ctx context.Context) (*storage.FileInfo, error) {
	files, err := e.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	return storage.FindLatest(files), nil
}

func (e *SnapshotExporter) prune(ctx context.Context) (int, error) {
	files, err := e.Snapshots(ctx)
	if err != nil {
		return 0, err
	}
	if len(files) <= e.keep {
		return 0, nil
	}
	pruned := 0
	for _, f := range files[e.keep:] {
		if err := e.client.Delete(ctx, f.Path); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

// SnapshotName builds a sortable, collision-free object name such as
// snapshot-20240102T030405Z-k3v9x0qa.json.
func SnapshotName(at time.Time, format string) (string, error) {
	suffix, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 8)
	if err != nil {
		return "", fmt.Errorf("failed to generate snapshot id: %w", err)
	}
	return fmt.Sprintf("%s%s-%s.%s", snapshotPrefix, at.UTC().Format("20060102T150405Z"), suffix, Extension(format)), nil
}

var _ Exporter = (*SnapshotExporter)(nil)
