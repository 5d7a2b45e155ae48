// Package audit records what happened to university records: saves from
// the editors, confirmed and declined deletes from search, and retention
// cleanups.
package audit

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/university/internal/database/audit"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/search"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event passed to LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogSave records a create or update coming from an editor.
func (s *Service) LogSave(entityType string, entityID uint, entityName string, created bool, err error) {
	eventType, verb := entities.AuditEventUpdate, "Updated "
	if created {
		eventType, verb = entities.AuditEventCreate, "Created "
	}

	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		Description: verb + entityType + ": " + entityName,
		EntityType:  entityType,
		Status:      entities.AuditStatusSuccess,
	}
	if entityID != 0 {
		event.EntityID = &entityID
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogDelete records a deletion event. A declined confirmation is recorded
// with AuditStatusDeclined.
func (s *Service) LogDelete(entityType string, entityID uint, entityName string, declined bool, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: "Deleted " + entityType + ": " + entityName,
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	switch {
	case err != nil:
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	case declined:
		event.Status = entities.AuditStatusDeclined
		event.Description = "Kept " + entityType + ": " + entityName
	}

	s.LogAsync(event)
}

// LogCleanup records a retention cleanup run.
func (s *Service) LogCleanup(deleted int64, retention time.Duration) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCleanup,
		Action:      "audit_cleanup",
		Description: "Removed old audit events",
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"deleted":         deleted,
		"retention_hours": int(retention.Hours()),
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	s.LogAsync(event)
}

// SaveCompleted implements editor.Observer.
func (s *Service) SaveCompleted(kind entities.Kind, id uint, label string, created bool, err error) {
	s.LogSave(kind.Singular(), id, label, created, err)
}

// DeleteCompleted implements search.Observer. Ignored requests are not
// recorded.
func (s *Service) DeleteCompleted(kind entities.Kind, id uint, label string, outcome search.Outcome, err error) {
	if outcome == search.OutcomeIgnored && err == nil {
		return
	}
	s.LogDelete(kind.Singular(), id, label, outcome == search.OutcomeDeclined, err)
}

// SearchCompleted implements search.Observer. Searches are not audited.
func (s *Service) SearchCompleted(entities.Kind, int) {}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// GetEventsForEntity retrieves the history of one record.
func (s *Service) GetEventsForEntity(kind entities.Kind, id uint) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(kind.Singular(), id)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.repo.DeleteOldEvents(cutoff)
	if err == nil && deleted > 0 {
		s.LogCleanup(deleted, retention)
	}
	return deleted, err
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
