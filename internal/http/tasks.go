package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
)

// TaskStatusReader looks up queued tasks. *tasks.Client implements it.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// JobRunner exposes the maintenance jobs. *scheduler.MaintenanceScheduler
// implements it.
type JobRunner interface {
	JobNames() []string
	NextRuns() map[string]time.Time
	RunNow(name string) (string, error)
	IsRunning() bool
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	status TaskStatusReader
	jobs   JobRunner
}

func NewTasksController(status TaskStatusReader, jobs JobRunner) *TasksController {
	return &TasksController{status: status, jobs: jobs}
}

// JobInfo describes a scheduled maintenance job.
type JobInfo struct {
	Name    string     `json:"name"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// ListJobs handles GET /api/tasks/jobs
func (tc *TasksController) ListJobs(c *gin.Context) {
	next := tc.jobs.NextRuns()
	jobs := make([]JobInfo, 0)
	for _, name := range tc.jobs.JobNames() {
		info := JobInfo{Name: name}
		if at, ok := next[name]; ok {
			info.NextRun = &at
		}
		jobs = append(jobs, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"scheduler_running": tc.jobs.IsRunning(),
		"jobs":              jobs,
	})
}

// RunJob handles POST /api/tasks/jobs/:name/run
// The job's task is enqueued immediately, outside its schedule.
func (tc *TasksController) RunJob(c *gin.Context) {
	name := c.Param("name")
	if !slices.Contains(tc.jobs.JobNames(), name) {
		respondNotFound(c, "job '"+name+"'")
		return
	}

	taskID, err := tc.jobs.RunNow(name)
	if err != nil {
		respondInternalError(c, err, "run job "+name)
		return
	}

	respondAccepted(c, "task enqueued", gin.H{
		"task_id": taskID,
		"job":     name,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.status.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	statusStr := taskStatusToString(status)
	code := http.StatusOK
	if status == backlite.TaskStatusNotFound {
		code = http.StatusNotFound
	}

	c.JSON(code, gin.H{
		"id":     taskID,
		"status": statusStr,
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
