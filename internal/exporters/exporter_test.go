package exporters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/university/internal/database"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/storage/providers/local"
)

func setupSeededStore(t *testing.T) *database.Store {
	dbPath := "./test_exporters_" + t.Name() + ".db"
	db, err := database.Open(database.Options{Driver: database.DriverSQLite, Path: dbPath, LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	_, err = db.Seed()
	require.NoError(t, err)
	return database.NewStore(db.DB)
}

type failingReader struct {
	database.Store
}

func (failingReader) GetAllStudents() ([]entities.Student, error) {
	return nil, errors.New("boom")
}

// --- Snapshot Tests ---

func TestBuildSnapshot(t *testing.T) {
	store := setupSeededStore(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	snap, err := BuildSnapshot(store, at)
	require.NoError(t, err)

	assert.Equal(t, at, snap.GeneratedAt)
	assert.Len(t, snap.Students, 3)
	assert.Len(t, snap.Subjects, 3)
	assert.Len(t, snap.Books, 1)
	assert.Len(t, snap.Classrooms, 1)

	assert.Equal(t, "1987-05-22", snap.Students[0].BirthDate)
	assert.Equal(t, "2012-12-12", snap.Books[0].PublicationDate)

	var math SubjectRecord
	for _, s := range snap.Subjects {
		if s.Name == "Matematyka" {
			math = s
		}
	}
	assert.Equal(t, []uint{snap.Students[0].ID}, math.StudentIDs)
	assert.Equal(t, []uint{snap.Books[0].ID}, math.BookIDs)
}

func TestBuildSnapshot_ReaderError(t *testing.T) {
	_, err := BuildSnapshot(&failingReader{}, time.Now())
	assert.ErrorContains(t, err, "students")
}

// --- Encoding Tests ---

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"md", FormatMarkdown, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	store := setupSeededStore(t)
	snap, err := BuildSnapshot(store, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			data, err := Encode(snap, format)
			require.NoError(t, err)
			assert.Contains(t, string(data), "87052201238")

			back, err := Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, snap.Students, back.Students)
			assert.Equal(t, snap.Subjects, back.Subjects)
			assert.True(t, snap.GeneratedAt.Equal(back.GeneratedAt))
		})
	}

	_, err = Decode([]byte("# x"), FormatMarkdown)
	assert.Error(t, err)
}

func TestEncodeEmptySnapshotUsesLists(t *testing.T) {
	snap := &Snapshot{Students: []StudentRecord{}, Subjects: []SubjectRecord{}, Books: []BookRecord{}, Classrooms: []ClassroomRecord{}}
	data, err := Encode(snap, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"students": []`)
	assert.NotContains(t, string(data), "null")
}

func TestGenerateMarkdown(t *testing.T) {
	store := setupSeededStore(t)
	snap, err := BuildSnapshot(store, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	markdown := GenerateMarkdown(snap)

	assert.True(t, strings.HasPrefix(markdown, "---\n"))
	assert.Contains(t, markdown, "content_type: university_snapshot")
	assert.Contains(t, markdown, "generated_at: 2024-03-01 09:30")
	assert.Contains(t, markdown, "students: 3")
	assert.Contains(t, markdown, "### Matematyka")
	assert.Contains(t, markdown, "- student: Wienczysław Nowakowicz")
	assert.Contains(t, markdown, "- book: Tratrata")
	assert.Contains(t, markdown, "## Classrooms")
}

// --- Exporter Tests ---

func TestSnapshotName(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a, err := SnapshotName(at, FormatYAML)
	require.NoError(t, err)
	b, err := SnapshotName(at, FormatYAML)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "snapshot-20240102T030405Z-"))
	assert.True(t, strings.HasSuffix(a, ".yaml"))
	assert.NotEqual(t, a, b)
}

func TestNewSnapshotExporter_InvalidFormat(t *testing.T) {
	_, err := NewSnapshotExporter(nil, nil, "", "xml", 0)
	assert.Error(t, err)
}

func TestSnapshotExporter_Export(t *testing.T) {
	ctx := context.Background()
	store := setupSeededStore(t)
	root := t.TempDir()
	client, err := local.NewClient(root)
	require.NoError(t, err)

	exporter, err := NewSnapshotExporter(store, client, "nightly", FormatJSON, 0)
	require.NoError(t, err)

	result, err := exporter.Export(ctx)
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, result.Format)
	assert.Equal(t, 3, result.StudentsProcessed)
	assert.Equal(t, 3, result.SubjectsProcessed)
	assert.Equal(t, 1, result.BooksProcessed)
	assert.Equal(t, 1, result.ClassroomsProcessed)
	assert.True(t, strings.HasPrefix(result.Path, "nightly/snapshot-"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(result.Path)))
	require.NoError(t, err)
	assert.Equal(t, result.Bytes, len(data))

	back, err := Decode(data, FormatJSON)
	require.NoError(t, err)
	assert.Len(t, back.Students, 3)

	latest, err := exporter.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, result.Path, latest.Path)
}

func TestSnapshotExporter_Prune(t *testing.T) {
	ctx := context.Background()
	store := setupSeededStore(t)
	root := t.TempDir()
	client, err := local.NewClient(root)
	require.NoError(t, err)
	require.NoError(t, client.Upload(ctx, "keep-me.txt", strings.NewReader("x")))

	exporter, err := NewSnapshotExporter(store, client, "", FormatYAML, 2)
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var last ExportResult
	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		exporter.now = func() time.Time { return at }
		last, err = exporter.Export(ctx)
		require.NoError(t, err)
		// Modification times follow the export clock so ordering is deterministic.
		require.NoError(t, os.Chtimes(filepath.Join(root, last.Path), at, at))
	}

	snaps, err := exporter.Snapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
	assert.Equal(t, last.Path, snaps[0].Path)

	ok, err := client.Exists(ctx, "keep-me.txt")
	require.NoError(t, err)
	assert.True(t, ok, "pruning only touches snapshot objects")
}
