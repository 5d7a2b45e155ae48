package audit

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/university/internal/database/audit"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/search"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	dbPath := "./test_audit_service_" + t.Name() + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	svc := NewService(auditRepo.NewRepository(db))

	t.Cleanup(func() {
		svc.Wait()
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(dbPath)
	})

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCreate,
		Action:      "student_create",
		Description: "Created student: Jan Kowalski",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "student_create", saved.Action)
}

func TestService_LogSave(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("created", func(t *testing.T) {
		svc.LogSave("student", 7, "Jan Kowalski", true, nil)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "student_create").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditEventCreate, event.EventType)
		assert.Equal(t, "Created student: Jan Kowalski", event.Description)
		require.NotNil(t, event.EntityID)
		assert.Equal(t, uint(7), *event.EntityID)
	})

	t.Run("failed update", func(t *testing.T) {
		svc.LogSave("subject", 3, "Chemia", false, errors.New("UNIQUE constraint failed"))
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "subject_update").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.ErrorMsg, "UNIQUE")
	})

	t.Run("failed create has no entity", func(t *testing.T) {
		svc.LogSave("book", 0, "Tratrata", true, errors.New("disk full"))
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "book_create").First(&event).Error
		require.NoError(t, err)
		assert.Nil(t, event.EntityID)
	})
}

func TestService_DeleteCompleted(t *testing.T) {
	svc, db := setupTestService(t)

	svc.DeleteCompleted(entities.KindBook, 1, "Tratrata", search.OutcomeDeleted, nil)
	svc.DeleteCompleted(entities.KindClassroom, 2, "Building A, Room 101", search.OutcomeDeclined, nil)
	svc.DeleteCompleted(entities.KindStudent, 3, "", search.OutcomeIgnored, nil)
	svc.Wait()

	var count int64
	require.NoError(t, db.Model(&entities.AuditEvent{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var deleted entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "book_delete").First(&deleted).Error)
	assert.Equal(t, entities.AuditStatusSuccess, deleted.Status)
	assert.Equal(t, "Deleted book: Tratrata", deleted.Description)

	var declined entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "classroom_delete").First(&declined).Error)
	assert.Equal(t, entities.AuditStatusDeclined, declined.Status)
}

func TestService_GetEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	for i := 0; i < 5; i++ {
		err := svc.Log(&entities.AuditEvent{
			EventType: entities.AuditEventUpdate,
			Action:    "test",
			Status:    entities.AuditStatusSuccess,
		})
		require.NoError(t, err)
	}

	events, total, err := svc.GetEvents(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, events, 5)

	svc.SaveCompleted(entities.KindStudent, 9, "Jan Kowalski", false, nil)
	svc.Wait()
	history, err := svc.GetEventsForEntity(entities.KindStudent, 9)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	updates, total, err := svc.GetEventsByType(entities.AuditEventUpdate, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, updates, 6)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	oldEvent := &entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "old",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(oldEvent).Error)

	newEvent := &entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "new",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(newEvent).Error)

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	svc.Wait()

	var remaining []entities.AuditEvent
	db.Order("id ASC").Find(&remaining)
	require.Len(t, remaining, 2)
	assert.Equal(t, "new", remaining[0].Action)
	assert.Equal(t, "audit_cleanup", remaining[1].Action)
	assert.Contains(t, remaining[1].Metadata, `"deleted":1`)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
	}
}
