package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
)

// Enqueuer hands tasks to the queue. *tasks.Client implements it.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// Job enqueues Task every time Schedule fires.
type Job struct {
	Name     string
	Schedule string
	Task     backlite.Task
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule checks a five-field cron expression or a descriptor such
// as "@daily" or "@every 10m".
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// MaintenanceScheduler enqueues the maintenance tasks on their cron schedules.
// Jobs with an empty schedule are skipped.
type MaintenanceScheduler struct {
	queue Enqueuer
	jobs  []Job

	cron       *cron.Cron
	entries    map[string]cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewMaintenanceScheduler(queue Enqueuer, jobs ...Job) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		queue:   queue,
		jobs:    jobs,
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
	}
}

// Start registers every scheduled job and starts cron. The scheduler stops
// when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	for _, job := range s.jobs {
		if job.Schedule == "" {
			log.Printf("Scheduler: %s disabled", job.Name)
			continue
		}
		if err := ValidateSchedule(job.Schedule); err != nil {
			return fmt.Errorf("%s: %w", job.Name, err)
		}
		job := job
		id, err := s.cron.AddFunc(job.Schedule, func() {
			s.enqueue(job)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
		s.entries[job.Name] = id
	}

	if len(s.entries) == 0 {
		log.Printf("Scheduler: no jobs scheduled")
		return nil
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	for _, entry := range s.cron.Entries() {
		log.Printf("Scheduler: %s next run at %v", s.nameOf(entry.ID), entry.Next)
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for running enqueue calls and stops cron.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Scheduler: stopped")
}

// RunNow enqueues the named job immediately.
func (s *MaintenanceScheduler) RunNow(name string) (string, error) {
	for _, job := range s.jobs {
		if job.Name == name {
			return s.queue.Enqueue(job.Task)
		}
	}
	return "", fmt.Errorf("unknown job %q", name)
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRuns maps each scheduled job to its next run time.
func (s *MaintenanceScheduler) NextRuns() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make(map[string]time.Time, len(s.entries))
	if !s.isRunning {
		return runs
	}
	for _, entry := range s.cron.Entries() {
		runs[s.nameOf(entry.ID)] = entry.Next
	}
	return runs
}

// JobNames returns the configured job names in sorted order.
func (s *MaintenanceScheduler) JobNames() []string {
	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name)
	}
	sort.Strings(names)
	return names
}

func (s *MaintenanceScheduler) enqueue(job Job) {
	id, err := s.queue.Enqueue(job.Task)
	if err != nil {
		log.Printf("Scheduler: failed to enqueue %s: %v", job.Name, err)
		return
	}
	log.Printf("Scheduler: enqueued %s as task %s", job.Name, id)
}

func (s *MaintenanceScheduler) nameOf(id cron.EntryID) string {
	for name, entryID := range s.entries {
		if entryID == id {
			return name
		}
	}
	return ""
}
