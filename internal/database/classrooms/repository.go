// Package classrooms provides database operations for classrooms.
package classrooms

import (
	"gorm.io/gorm"

	"github.com/mrlokans/university/internal/database/dbutil"
	"github.com/mrlokans/university/internal/entities"
)

// Repository handles classroom database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new classrooms repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetClassroomByID retrieves a classroom by ID.
func (r *Repository) GetClassroomByID(id uint) (*entities.Classroom, error) {
	var classroom entities.Classroom
	err := r.db.First(&classroom, id).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

// GetAllClassrooms retrieves every classroom ordered by ID.
func (r *Repository) GetAllClassrooms() ([]entities.Classroom, error) {
	var classrooms []entities.Classroom
	err := r.db.Order("id ASC").Find(&classrooms).Error
	return classrooms, err
}

// SearchClassroomsByLocation returns classrooms whose location contains
// fragment.
func (r *Repository) SearchClassroomsByLocation(fragment string) ([]entities.Classroom, error) {
	classrooms := []entities.Classroom{}
	err := r.db.Where("location LIKE ? ESCAPE '"+dbutil.LikeEscape+"'", dbutil.ContainsPattern(fragment)).
		Order("id ASC").
		Find(&classrooms).Error
	return classrooms, err
}

// SaveClassroom creates or updates a classroom.
func (r *Repository) SaveClassroom(classroom *entities.Classroom) error {
	return dbutil.SaveRecord(r.db, classroom, classroom.ID)
}

// DeleteClassroom removes a classroom.
func (r *Repository) DeleteClassroom(id uint) error {
	result := r.db.Delete(&entities.Classroom{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
