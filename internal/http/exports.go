package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/university/internal/exporters"
	"github.com/mrlokans/university/internal/storage"
	"github.com/mrlokans/university/internal/tasks"
)

// SnapshotStore writes and lists snapshots. *exporters.SnapshotExporter
// implements it.
type SnapshotStore interface {
	exporters.Exporter
	Snapshots(ctx context.Context) ([]storage.FileInfo, error)
	Latest(ctx context.Context) (*storage.FileInfo, error)
}

// TaskEnqueuer hands tasks to the background queue.
type TaskEnqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

type ExportsController struct {
	snapshots SnapshotStore
	queue     TaskEnqueuer
}

// NewExportsController creates the controller. With a nil queue exports run
// inside the request.
func NewExportsController(snapshots SnapshotStore, queue TaskEnqueuer) *ExportsController {
	return &ExportsController{snapshots: snapshots, queue: queue}
}

// snapshotInfo is the JSON shape of a stored snapshot.
type snapshotInfo struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

func toSnapshotInfo(f storage.FileInfo) snapshotInfo {
	return snapshotInfo{Name: f.Name, Path: f.Path, Size: f.Size, ModifiedAt: f.ModifiedAt}
}

// CreateExport handles POST /api/exports
// With a task queue the export is enqueued and 202 is returned with the task
// id; otherwise the snapshot is written before responding.
func (ec *ExportsController) CreateExport(c *gin.Context) {
	if ec.queue != nil {
		taskID, err := ec.queue.Enqueue(tasks.ExportSnapshotTask{Reason: "api"})
		if err != nil {
			respondInternalError(c, err, "enqueue export")
			return
		}
		respondAccepted(c, "Export queued", gin.H{"task_id": taskID})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	result, err := ec.snapshots.Export(ctx)
	if err != nil {
		respondInternalError(c, err, "export snapshot")
		return
	}
	respondCreated(c, result)
}

// ListExports handles GET /api/exports
func (ec *ExportsController) ListExports(c *gin.Context) {
	files, err := ec.snapshots.Snapshots(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list snapshots")
		return
	}

	out := make([]snapshotInfo, 0, len(files))
	for _, f := range files {
		out = append(out, toSnapshotInfo(f))
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshots": out,
		"count":     len(out),
	})
}

// LatestExport handles GET /api/exports/latest
func (ec *ExportsController) LatestExport(c *gin.Context) {
	latest, err := ec.snapshots.Latest(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "find latest snapshot")
		return
	}
	if latest == nil {
		respondNotFound(c, "snapshot")
		return
	}
	c.JSON(http.StatusOK, toSnapshotInfo(*latest))
}
