package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/university/internal/exporters"
)

func TestDBPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "university-tasks.db"), DBPathFor(filepath.Join("data", "university.db"), "ignored"))
	assert.Equal(t, filepath.Join("var", "university-tasks.db"), DBPathFor("", "var"))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	tasksDBPath := DBPathFor(filepath.Join(tmpDir, "test.db"), "")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(tasksDBPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test-tasks.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

type fakeSweeper struct {
	idle    time.Duration
	expired int
}

func (f *fakeSweeper) Sweep(idle time.Duration) int {
	f.idle = idle
	return f.expired
}

type fakeRecorder struct{ total int }

func (f *fakeRecorder) EditorSessionsExpired(n int) { f.total += n }

func TestSweepQueueRunsThroughClient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test-tasks.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	done := make(chan time.Duration, 1)
	sweeper := sweeperFunc(func(idle time.Duration) int {
		done <- idle
		return 0
	})
	client.Register(NewSweepEditorSessionsQueue(sweeper, time.Minute, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.Enqueue(SweepEditorSessionsTask{IdleSeconds: 90})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case idle := <-done:
		assert.Equal(t, 90*time.Second, idle)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

type sweeperFunc func(time.Duration) int

func (f sweeperFunc) Sweep(idle time.Duration) int { return f(idle) }

func TestSweepEditorSessionsProcessor(t *testing.T) {
	t.Run("uses task timeout", func(t *testing.T) {
		sweeper := &fakeSweeper{expired: 2}
		recorder := &fakeRecorder{}
		process := SweepEditorSessionsProcessor(sweeper, time.Hour, recorder)

		require.NoError(t, process(context.Background(), SweepEditorSessionsTask{IdleSeconds: 60}))
		assert.Equal(t, time.Minute, sweeper.idle)
		assert.Equal(t, 2, recorder.total)
	})

	t.Run("falls back to default timeout", func(t *testing.T) {
		sweeper := &fakeSweeper{}
		process := SweepEditorSessionsProcessor(sweeper, 30*time.Minute, nil)

		require.NoError(t, process(context.Background(), SweepEditorSessionsTask{}))
		assert.Equal(t, 30*time.Minute, sweeper.idle)
	})

	t.Run("rejects missing sweeper and timeout", func(t *testing.T) {
		assert.Error(t, SweepEditorSessionsProcessor(nil, time.Minute, nil)(context.Background(), SweepEditorSessionsTask{}))
		assert.Error(t, SweepEditorSessionsProcessor(&fakeSweeper{}, 0, nil)(context.Background(), SweepEditorSessionsTask{}))
	})
}

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, f.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("task retention wins", func(t *testing.T) {
		cleaner := &fakeCleaner{deleted: 4}
		require.NoError(t, CleanupAuditEventsProcessor(cleaner, 90)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7}))
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	})

	t.Run("default retention", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		require.NoError(t, CleanupAuditEventsProcessor(cleaner, 90)(context.Background(), CleanupAuditEventsTask{}))
		assert.Equal(t, 90*24*time.Hour, cleaner.retention)
	})

	t.Run("errors", func(t *testing.T) {
		assert.Error(t, CleanupAuditEventsProcessor(nil, 90)(context.Background(), CleanupAuditEventsTask{}))
		assert.Error(t, CleanupAuditEventsProcessor(&fakeCleaner{}, 0)(context.Background(), CleanupAuditEventsTask{}))

		err := CleanupAuditEventsProcessor(&fakeCleaner{err: errors.New("locked")}, 30)(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorContains(t, err, "locked")
	})
}

type fakeExporter struct {
	calls int
	err   error
}

func (f *fakeExporter) Export(context.Context) (exporters.ExportResult, error) {
	f.calls++
	return exporters.ExportResult{Path: "snapshot-x.json"}, f.err
}

func TestExportSnapshotProcessor(t *testing.T) {
	exp := &fakeExporter{}
	require.NoError(t, ExportSnapshotProcessor(exp)(context.Background(), ExportSnapshotTask{Reason: "schedule"}))
	assert.Equal(t, 1, exp.calls)

	exp.err = errors.New("bucket missing")
	assert.ErrorContains(t, ExportSnapshotProcessor(exp)(context.Background(), ExportSnapshotTask{}), "bucket missing")

	assert.Error(t, ExportSnapshotProcessor(nil)(context.Background(), ExportSnapshotTask{}))
}

func TestQueueConfigs(t *testing.T) {
	tests := []struct {
		task        backlite.Task
		name        string
		maxAttempts int
	}{
		{CleanupAuditEventsTask{}, "cleanup_audit_events", 3},
		{SweepEditorSessionsTask{}, "sweep_editor_sessions", 1},
		{ExportSnapshotTask{}, "export_snapshot", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.task.Config()
			assert.Equal(t, tt.name, cfg.Name)
			assert.Equal(t, tt.maxAttempts, cfg.MaxAttempts)
			assert.NotNil(t, cfg.Retention)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 90, cfg.AuditRetentionDays)
	assert.Equal(t, 30*time.Minute, cfg.EditorIdleTimeout)
}
