package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// EditorSweeper closes editor sessions idle for longer than a timeout.
type EditorSweeper interface {
	Sweep(idle time.Duration) int
}

// SweepRecorder receives the number of expired sessions, e.g. for metrics.
type SweepRecorder interface {
	EditorSessionsExpired(n int)
}

// SweepEditorSessionsTask discards abandoned editor sessions. Unsaved edits
// in those sessions are lost; persisted records are not touched.
type SweepEditorSessionsTask struct {
	IdleSeconds int `json:"idle_seconds"`
}

func (t SweepEditorSessionsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_editor_sessions",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
		},
	}
}

func SweepEditorSessionsProcessor(sweeper EditorSweeper, defaultIdle time.Duration, recorder SweepRecorder) backlite.QueueProcessor[SweepEditorSessionsTask] {
	return func(ctx context.Context, task SweepEditorSessionsTask) error {
		if sweeper == nil {
			return fmt.Errorf("editor sweeper not configured")
		}

		idle := time.Duration(task.IdleSeconds) * time.Second
		if idle <= 0 {
			idle = defaultIdle
		}
		if idle <= 0 {
			return fmt.Errorf("editor idle timeout must be positive")
		}

		expired := sweeper.Sweep(idle)
		if recorder != nil {
			recorder.EditorSessionsExpired(expired)
		}
		if expired > 0 {
			log.Printf("[TASK] Closed %d editor sessions idle for more than %s", expired, idle)
		}
		return nil
	}
}

func NewSweepEditorSessionsQueue(sweeper EditorSweeper, defaultIdle time.Duration, recorder SweepRecorder) backlite.Queue {
	return backlite.NewQueue(SweepEditorSessionsProcessor(sweeper, defaultIdle, recorder))
}
