package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/university/internal/database"
	auditrepo "github.com/mrlokans/university/internal/database/audit"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/exporters"
)

// seededDB creates a sqlite file with the sample records and returns flags
// pointing at it.
func seededDB(t *testing.T) dbFlags {
	t.Helper()
	dbPath := "./test_cli_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	flags := dbFlags{Driver: database.DriverSQLite, Path: dbPath}

	db, err := flags.open()
	require.NoError(t, err)
	seeded, err := db.Seed()
	require.NoError(t, err)
	require.True(t, seeded)
	require.NoError(t, db.Close())

	t.Cleanup(func() { os.Remove(dbPath) })
	return flags
}

func countRows(t *testing.T, flags dbFlags, kind entities.Kind) int {
	t.Helper()
	db, err := flags.open()
	require.NoError(t, err)
	defer db.Close()

	records, err := database.NewStore(db.DB).List(kind)
	require.NoError(t, err)
	switch r := records.(type) {
	case []entities.Student:
		return len(r)
	case []entities.Subject:
		return len(r)
	case []entities.Book:
		return len(r)
	case []entities.Classroom:
		return len(r)
	}
	t.Fatalf("unexpected list type %T", records)
	return 0
}

func TestSeedCommand(t *testing.T) {
	dbPath := "./test_cli_seed.db"
	t.Cleanup(func() { os.Remove(dbPath) })

	var out bytes.Buffer
	cmd := &SeedCommand{DB: dbFlags{Driver: database.DriverSQLite, Path: dbPath}, Out: &out}

	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Seeded sample records")

	out.Reset()
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "nothing to seed")
	assert.Equal(t, 3, countRows(t, cmd.DB, entities.KindStudent))
}

func TestSearchCommand_ParseFlags(t *testing.T) {
	cmd := NewSearchCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-kind", "student", "-condition", "Matematyka", "-format", "md"}))
	assert.Equal(t, entities.KindStudent, cmd.Kind)
	assert.Equal(t, "Matematyka", cmd.Condition)
	assert.Equal(t, formatMarkdown, cmd.Format)

	assert.Error(t, NewSearchCommand().ParseFlags([]string{"-condition", "x"}))
	assert.Error(t, NewSearchCommand().ParseFlags([]string{"-kind", "teachers"}))
	assert.Error(t, NewSearchCommand().ParseFlags([]string{"-kind", "books", "-format", "xml"}))
}

func TestSearchCommand_Table(t *testing.T) {
	flags := seededDB(t)

	var out bytes.Buffer
	cmd := &SearchCommand{DB: flags, Kind: entities.KindStudent, Condition: "Matematyka", Format: formatTable, Out: &out}
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "PESEL")
	assert.Contains(t, out.String(), "Wienczysław")
	assert.Contains(t, out.String(), "1987-05-22")
	assert.NotContains(t, out.String(), "Eugenia")
	assert.Contains(t, out.String(), "(1 rows)")
}

func TestSearchCommand_NoMatches(t *testing.T) {
	flags := seededDB(t)

	var out bytes.Buffer
	cmd := &SearchCommand{DB: flags, Kind: entities.KindBook, Condition: "Tolkien", Format: formatTable, Out: &out}
	require.NoError(t, cmd.Run())

	assert.Equal(t, "(0 rows)\n", out.String())
}

func TestSearchCommand_JSON(t *testing.T) {
	flags := seededDB(t)

	var out bytes.Buffer
	cmd := &SearchCommand{DB: flags, Kind: entities.KindSubject, Condition: "87052201238", Format: formatJSON, Out: &out}
	require.NoError(t, cmd.Run())

	var subjects []entities.Subject
	require.NoError(t, json.Unmarshal(out.Bytes(), &subjects))
	var names []string
	for _, s := range subjects {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"Matematyka", "Biologia"}, names)

	out.Reset()
	cmd.Condition = "00000000000"
	require.NoError(t, cmd.Run())
	assert.Equal(t, "[]\n", out.String())
}

func TestSearchCommand_Markdown(t *testing.T) {
	flags := seededDB(t)

	var out bytes.Buffer
	cmd := &SearchCommand{DB: flags, Kind: entities.KindClassroom, Condition: "Building A", Format: formatMarkdown, Out: &out}
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "| Location |")
	assert.Contains(t, out.String(), "Building A, Room 101")
	assert.Contains(t, out.String(), "| yes |")
}

func TestDeleteCommand_ParseFlags(t *testing.T) {
	cmd := NewDeleteCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-kind", "books", "-id", "1", "-yes"}))
	assert.Equal(t, entities.KindBook, cmd.Kind)
	assert.Equal(t, uint(1), cmd.ID)
	assert.True(t, cmd.Yes)

	assert.Error(t, NewDeleteCommand().ParseFlags([]string{"-kind", "books"}))
	assert.Error(t, NewDeleteCommand().ParseFlags([]string{"-id", "1"}))
}

func TestDeleteCommand_Prompt(t *testing.T) {
	interactive := func() bool { return true }

	tests := []struct {
		name      string
		answer    string
		wantOut   string
		wantBooks int
	}{
		{"yes", "y\n", "Deleted book 1", 0},
		{"full yes", "YES\n", "Deleted book 1", 0},
		{"no", "n\n", "Delete cancelled", 1},
		{"empty", "\n", "Delete cancelled", 1},
		{"eof", "", "Delete cancelled", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := seededDB(t)

			var out bytes.Buffer
			cmd := &DeleteCommand{
				DB: flags, Kind: entities.KindBook, ID: 1,
				In: strings.NewReader(tt.answer), Out: &out, Interactive: interactive,
			}
			require.NoError(t, cmd.Run())

			assert.Contains(t, out.String(), "Are you sure you want to delete Tratrata? [y/N]")
			assert.Contains(t, out.String(), tt.wantOut)
			assert.Equal(t, tt.wantBooks, countRows(t, flags, entities.KindBook))
		})
	}
}

func TestDeleteCommand_NonInteractive(t *testing.T) {
	flags := seededDB(t)

	var out bytes.Buffer
	cmd := &DeleteCommand{
		DB: flags, Kind: entities.KindStudent, ID: 1,
		In: strings.NewReader("y\n"), Out: &out, Interactive: func() bool { return false },
	}
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "refusing to delete Wienczysław Nowakowicz without -yes")
	assert.Contains(t, out.String(), "Delete cancelled")
	assert.Equal(t, 3, countRows(t, flags, entities.KindStudent))
}

func TestDeleteCommand_YesAndAudit(t *testing.T) {
	flags := seededDB(t)

	var out bytes.Buffer
	cmd := &DeleteCommand{DB: flags, Kind: entities.KindClassroom, ID: 1, Yes: true, Out: &out}
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "Deleted classroom 1")
	assert.NotContains(t, out.String(), "Are you sure")
	assert.Equal(t, 0, countRows(t, flags, entities.KindClassroom))

	db, err := flags.open()
	require.NoError(t, err)
	defer db.Close()
	events, err := auditrepo.NewRepository(db.DB).GetEventsForEntity("classroom", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entities.AuditEventDelete, events[0].EventType)
	assert.Equal(t, entities.AuditStatusSuccess, events[0].Status)
	assert.Equal(t, "Deleted classroom: Building A, Room 101", events[0].Description)
}

func TestDeleteCommand_Missing(t *testing.T) {
	flags := seededDB(t)

	cmd := &DeleteCommand{DB: flags, Kind: entities.KindSubject, ID: 99, Yes: true, Out: &bytes.Buffer{}}
	err := cmd.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject 99 not found")
}

func TestExportCommand_LocalDirectory(t *testing.T) {
	flags := seededDB(t)
	dir := t.TempDir()

	var out bytes.Buffer
	cmd := &ExportCommand{DB: flags, Format: exporters.FormatYAML, Dest: dir, Keep: 1, Out: &out}
	require.NoError(t, cmd.Run())
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "Snapshot written to "+dir)
	assert.Contains(t, out.String(), "Students:   3")
	assert.Contains(t, out.String(), "Pruned:     1 old snapshots")

	matches, err := filepath.Glob(filepath.Join(dir, "snapshot-*.yaml"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	snap, err := exporters.Decode(data, exporters.FormatYAML)
	require.NoError(t, err)
	assert.Len(t, snap.Subjects, 3)
}

func TestExportCommand_ParseFlags(t *testing.T) {
	cmd := NewExportCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-format", "md", "-dest", "s3://bucket/nightly", "-keep", "7"}))
	assert.Equal(t, exporters.FormatMarkdown, cmd.Format)
	assert.Equal(t, "s3://bucket/nightly", cmd.Dest)
	assert.Equal(t, 7, cmd.Keep)

	assert.Error(t, NewExportCommand().ParseFlags([]string{"-format", "xml"}))
	assert.Error(t, NewExportCommand().ParseFlags([]string{"-keep", "-1"}))
}
