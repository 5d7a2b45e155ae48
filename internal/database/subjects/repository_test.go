package subjects

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/university/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbPath := "./test_subjects_" + t.Name() + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Student{}, &entities.Subject{}, &entities.Book{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(dbPath)
	})

	return db
}

func seed(t *testing.T, db *gorm.DB) ([]entities.Student, []entities.Book) {
	students := []entities.Student{
		{Name: "Jan", LastName: "Kowalski", PESEL: "67111994116"},
		{Name: "Anna", LastName: "Nowak", PESEL: "87052201238"},
	}
	books := []entities.Book{
		{Title: "Animal Farm", Author: "George Orwell"},
		{Title: "Brave New World", Author: "Aldous Huxley"},
	}
	require.NoError(t, db.Create(&students).Error)
	require.NoError(t, db.Create(&books).Error)
	return students, books
}

func TestSaveSubject_WritesBothMemberships(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	students, books := seed(t, db)

	subject := &entities.Subject{Name: "Matematyka", Semester: "1", Lecturer: "Michalina Warszawa"}
	err := repo.SaveSubject(subject, students, books[:1])
	require.NoError(t, err)

	loaded, err := repo.GetSubjectByID(subject.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Students, 2)
	require.Len(t, loaded.Books, 1)
	assert.Equal(t, "Animal Farm", loaded.Books[0].Title)

	require.NoError(t, repo.SaveSubject(loaded, students[1:], books))
	reloaded, err := repo.GetSubjectByID(subject.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Students, 1)
	assert.Equal(t, "Anna", reloaded.Students[0].Name)
	assert.Len(t, reloaded.Books, 2)
}

func TestSaveSubject_FailedBookSetKeepsStudents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	students, books := seed(t, db)

	subject := &entities.Subject{Name: "Biologia"}
	require.NoError(t, repo.SaveSubject(subject, students[:1], books[:1]))

	err := repo.SaveSubject(subject, students, []entities.Book{{ID: 404}})
	require.Error(t, err)

	loaded, err := repo.GetSubjectByID(subject.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Students, 1)
	assert.Len(t, loaded.Books, 1)
}

func TestGetSubjectsAttendedBy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	students, _ := seed(t, db)

	math := &entities.Subject{Name: "Matematyka"}
	bio := &entities.Subject{Name: "Biologia"}
	require.NoError(t, repo.SaveSubject(math, students, nil))
	require.NoError(t, repo.SaveSubject(bio, students[1:], nil))

	found, err := repo.GetSubjectsAttendedBy("67111994116")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Matematyka", found[0].Name)

	found, err = repo.GetSubjectsAttendedBy("87052201238")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.GetSubjectsAttendedBy("99999999999")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestGetSubjectsByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.SaveSubject(&entities.Subject{Name: "Chemia"}, nil, nil))
	require.NoError(t, repo.SaveSubject(&entities.Subject{Name: "Chemia organiczna"}, nil, nil))

	found, err := repo.GetSubjectsByName("Chemia")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	all, err := repo.GetAllSubjects()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteSubject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	students, books := seed(t, db)

	subject := &entities.Subject{Name: "Matematyka"}
	require.NoError(t, repo.SaveSubject(subject, students, books))

	require.NoError(t, repo.DeleteSubject(subject.ID))

	var joinRows int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM student_subjects").Scan(&joinRows).Error)
	assert.Zero(t, joinRows)
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM subject_books").Scan(&joinRows).Error)
	assert.Zero(t, joinRows)

	assert.ErrorIs(t, repo.DeleteSubject(subject.ID), gorm.ErrRecordNotFound)
}

func TestGetAllSubjectsWithMembers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	students, books := seed(t, db)

	require.NoError(t, repo.SaveSubject(&entities.Subject{Name: "Matematyka"}, students, books[:1]))
	require.NoError(t, repo.SaveSubject(&entities.Subject{Name: "Chemia"}, nil, nil))

	all, err := repo.GetAllSubjectsWithMembers()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Len(t, all[0].Students, 2)
	assert.Len(t, all[0].Books, 1)
	assert.Empty(t, all[1].Students)
}
