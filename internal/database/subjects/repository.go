// Package subjects provides database operations for subjects and their
// student and book memberships.
package subjects

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/university/internal/database/dbutil"
	"github.com/mrlokans/university/internal/entities"
)

// Repository handles subject database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new subjects repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSubjectByID retrieves a subject with its students and books.
func (r *Repository) GetSubjectByID(id uint) (*entities.Subject, error) {
	var subject entities.Subject
	err := r.db.Preload("Students", orderByID).Preload("Books", orderByID).First(&subject, id).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// GetAllSubjects retrieves every subject ordered by ID.
func (r *Repository) GetAllSubjects() ([]entities.Subject, error) {
	var subjects []entities.Subject
	err := r.db.Order("id ASC").Find(&subjects).Error
	return subjects, err
}

// GetAllSubjectsWithMembers retrieves every subject with its students and
// books.
func (r *Repository) GetAllSubjectsWithMembers() ([]entities.Subject, error) {
	var subjects []entities.Subject
	err := r.db.Preload("Students", orderByID).Preload("Books", orderByID).Order("id ASC").Find(&subjects).Error
	return subjects, err
}

// GetSubjectsByName retrieves subjects whose name equals name exactly.
func (r *Repository) GetSubjectsByName(name string) ([]entities.Subject, error) {
	var subjects []entities.Subject
	err := r.db.Where("name = ?", name).Order("id ASC").Find(&subjects).Error
	return subjects, err
}

// GetSubjectsAttendedBy returns the subjects attended by the student with
// the given PESEL. An unknown PESEL yields an empty slice.
func (r *Repository) GetSubjectsAttendedBy(pesel string) ([]entities.Subject, error) {
	subjects := []entities.Subject{}

	var student entities.Student
	err := r.db.Where("pesel = ?", pesel).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return subjects, nil
	}
	if err != nil {
		return nil, err
	}

	err = r.db.Preload("Students", orderByID).
		Where("id IN (SELECT subject_id FROM student_subjects WHERE student_id = ?)", student.ID).
		Order("id ASC").
		Find(&subjects).Error
	return subjects, err
}

// SaveSubject creates or updates a subject and replaces both of its
// membership sets in a single transaction.
func (r *Repository) SaveSubject(subject *entities.Subject, students []entities.Student, books []entities.Book) error {
	studentIDs := make([]uint, 0, len(students))
	for _, s := range students {
		studentIDs = append(studentIDs, s.ID)
	}
	bookIDs := make([]uint, 0, len(books))
	for _, b := range books {
		bookIDs = append(bookIDs, b.ID)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := dbutil.SaveRecord(tx, subject, subject.ID); err != nil {
			return fmt.Errorf("save subject: %w", err)
		}
		if err := dbutil.ReplaceMembers(tx, "student_subjects", "subject_id", "student_id", subject.ID, &entities.Student{}, studentIDs); err != nil {
			return err
		}
		return dbutil.ReplaceMembers(tx, "subject_books", "subject_id", "book_id", subject.ID, &entities.Book{}, bookIDs)
	})
	if err != nil {
		return err
	}

	subject.Students = append([]entities.Student(nil), students...)
	subject.Books = append([]entities.Book(nil), books...)
	return nil
}

// DeleteSubject removes a subject and every membership that references it.
func (r *Repository) DeleteSubject(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM student_subjects WHERE subject_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM subject_books WHERE subject_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Subject{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
