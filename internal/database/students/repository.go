// Package students provides database operations for students and their
// subject memberships.
//
// # Usage
//
//	repo := students.NewRepository(db)
//	student, err := repo.GetStudentByID(1)
//	attending, err := repo.GetStudentsBySubjectName("Matematyka")
package students

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/university/internal/database/dbutil"
	"github.com/mrlokans/university/internal/entities"
)

// Repository handles student database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new students repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetStudentByID retrieves a student with its subjects.
func (r *Repository) GetStudentByID(id uint) (*entities.Student, error) {
	var student entities.Student
	err := r.db.Preload("Subjects", orderByID).First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetStudentByPESEL retrieves a student by exact PESEL match.
func (r *Repository) GetStudentByPESEL(pesel string) (*entities.Student, error) {
	var student entities.Student
	err := r.db.Where("pesel = ?", pesel).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetAllStudents retrieves every student ordered by ID.
func (r *Repository) GetAllStudents() ([]entities.Student, error) {
	var students []entities.Student
	err := r.db.Order("id ASC").Find(&students).Error
	return students, err
}

// GetStudentsBySubjectName returns the students attending any subject whose
// name equals name exactly. No matching subject yields an empty slice.
func (r *Repository) GetStudentsBySubjectName(name string) ([]entities.Student, error) {
	var subjectIDs []uint
	if err := r.db.Model(&entities.Subject{}).Where("name = ?", name).Pluck("id", &subjectIDs).Error; err != nil {
		return nil, err
	}

	students := []entities.Student{}
	if len(subjectIDs) == 0 {
		return students, nil
	}

	err := r.db.Preload("Subjects", orderByID).
		Where("id IN (SELECT student_id FROM student_subjects WHERE subject_id IN ?)", subjectIDs).
		Order("id ASC").
		Find(&students).Error
	return students, err
}

// SaveStudent creates or updates a student and replaces its subject
// memberships in a single transaction. Every subject must exist; otherwise
// nothing is written.
func (r *Repository) SaveStudent(student *entities.Student, subjects []entities.Subject) error {
	ids := make([]uint, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.ID)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := dbutil.SaveRecord(tx, student, student.ID); err != nil {
			return fmt.Errorf("save student: %w", err)
		}
		return dbutil.ReplaceMembers(tx, "student_subjects", "student_id", "subject_id", student.ID, &entities.Subject{}, ids)
	})
	if err != nil {
		return err
	}

	student.Subjects = append([]entities.Subject(nil), subjects...)
	return nil
}

// DeleteStudent removes a student and its memberships.
func (r *Repository) DeleteStudent(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM student_subjects WHERE student_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Student{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountStudents returns the number of stored students.
func (r *Repository) CountStudents() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Student{}).Count(&count).Error
	return count, err
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
