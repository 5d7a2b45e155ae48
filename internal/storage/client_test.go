package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinPath(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"", "a.json", "a.json"},
		{"snapshots", "a.json", "snapshots/a.json"},
		{"/snapshots/", "a.json", "snapshots/a.json"},
		{"nightly/university", "a.yaml", "nightly/university/a.yaml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinPath(tt.prefix, tt.name))
	}
}

func TestFindLatest(t *testing.T) {
	assert.Nil(t, FindLatest(nil))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	files := []FileInfo{
		{Path: "a", ModifiedAt: base},
		{Path: "b", ModifiedAt: base.Add(time.Hour)},
		{Path: "c", ModifiedAt: base.Add(-time.Hour)},
	}
	latest := FindLatest(files)
	if assert.NotNil(t, latest) {
		assert.Equal(t, "b", latest.Path)
	}
}

func TestFilterFilesAndSort(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	files := []FileInfo{
		{Path: "snapshot-1.json", ModifiedAt: base},
		{Path: "notes.txt", ModifiedAt: base.Add(2 * time.Hour)},
		{Path: "snapshot-3.json", ModifiedAt: base.Add(time.Hour)},
		{Path: "snapshot-2.json", ModifiedAt: base.Add(time.Hour)},
	}

	snaps := FilterFiles(files, func(f FileInfo) bool { return f.Path != "notes.txt" })
	SortNewestFirst(snaps)

	var paths []string
	for _, f := range snaps {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"snapshot-3.json", "snapshot-2.json", "snapshot-1.json"}, paths)
}
