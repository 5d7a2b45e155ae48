package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/university/internal/exporters"
)

// ExportSnapshotTask writes one snapshot through the configured exporter.
type ExportSnapshotTask struct {
	Reason string `json:"reason,omitempty"`
}

func (t ExportSnapshotTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "export_snapshot",
		MaxAttempts: 3,
		Backoff:     2 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func ExportSnapshotProcessor(exporter exporters.Exporter) backlite.QueueProcessor[ExportSnapshotTask] {
	return func(ctx context.Context, task ExportSnapshotTask) error {
		if exporter == nil {
			return fmt.Errorf("snapshot exporter not configured")
		}

		result, err := exporter.Export(ctx)
		if err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}

		reason := task.Reason
		if reason == "" {
			reason = "manual"
		}
		log.Printf("[TASK] Exported snapshot %s (%s)", result.Path, reason)
		return nil
	}
}

func NewExportSnapshotQueue(exporter exporters.Exporter) backlite.Queue {
	return backlite.NewQueue(ExportSnapshotProcessor(exporter))
}
