package storage

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"
)

// FileInfo contains metadata about a stored snapshot object.
type FileInfo struct {
	Name       string
	Path       string
	Size       int64
	ModifiedAt time.Time
}

// Client defines the operations the snapshot exporter needs from a
// destination, either a local directory or an S3 bucket.
type Client interface {
	// List returns the objects whose path starts with prefix
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// Upload writes content to a path, replacing any previous object
	Upload(ctx context.Context, path string, content io.Reader) error

	// Delete removes an object
	Delete(ctx context.Context, path string) error

	// Exists checks if an object exists
	Exists(ctx context.Context, path string) (bool, error)
}

// JoinPath joins a destination prefix and an object name with a single slash.
func JoinPath(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// FilterFiles filters file list by a predicate function
func FilterFiles(files []FileInfo, predicate func(FileInfo) bool) []FileInfo {
	var filtered []FileInfo
	for _, f := range files {
		if predicate(f) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// FindLatest returns the most recently modified file from a list
func FindLatest(files []FileInfo) *FileInfo {
	if len(files) == 0 {
		return nil
	}

	latest := &files[0]
	for i := 1; i < len(files); i++ {
		if files[i].ModifiedAt.After(latest.ModifiedAt) {
			latest = &files[i]
		}
	}
	return latest
}

// SortNewestFirst orders files by modification time, newest first. Ties are
// broken by path so the order is stable across listings.
func SortNewestFirst(files []FileInfo) {
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModifiedAt.Equal(files[j].ModifiedAt) {
			return files[i].Path > files[j].Path
		}
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
}
