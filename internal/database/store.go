package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/university/internal/database/books"
	"github.com/mrlokans/university/internal/database/classrooms"
	"github.com/mrlokans/university/internal/database/students"
	"github.com/mrlokans/university/internal/database/subjects"
	"github.com/mrlokans/university/internal/entities"
)

// Store composes the per-kind repositories behind kind-keyed operations.
type Store struct {
	Students   *students.Repository
	Subjects   *subjects.Repository
	Books      *books.Repository
	Classrooms *classrooms.Repository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Students:   students.NewRepository(db),
		Subjects:   subjects.NewRepository(db),
		Books:      books.NewRepository(db),
		Classrooms: classrooms.NewRepository(db),
	}
}

// FindByID returns a pointer to the record of the given kind, or
// gorm.ErrRecordNotFound.
func (s *Store) FindByID(kind entities.Kind, id uint) (any, error) {
	switch kind {
	case entities.KindStudent:
		return s.Students.GetStudentByID(id)
	case entities.KindSubject:
		return s.Subjects.GetSubjectByID(id)
	case entities.KindBook:
		return s.Books.GetBookByID(id)
	case entities.KindClassroom:
		return s.Classrooms.GetClassroomByID(id)
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}

// List returns every record of the given kind as a typed slice.
func (s *Store) List(kind entities.Kind) (any, error) {
	switch kind {
	case entities.KindStudent:
		return s.Students.GetAllStudents()
	case entities.KindSubject:
		return s.Subjects.GetAllSubjects()
	case entities.KindBook:
		return s.Books.GetAllBooks()
	case entities.KindClassroom:
		return s.Classrooms.GetAllClassrooms()
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}

// Delete removes the record and its memberships.
func (s *Store) Delete(kind entities.Kind, id uint) error {
	switch kind {
	case entities.KindStudent:
		return s.Students.DeleteStudent(id)
	case entities.KindSubject:
		return s.Subjects.DeleteSubject(id)
	case entities.KindBook:
		return s.Books.DeleteBook(id)
	case entities.KindClassroom:
		return s.Classrooms.DeleteClassroom(id)
	}
	return fmt.Errorf("unknown record kind %q", kind)
}

func (s *Store) StudentsAttending(subjectName string) ([]entities.Student, error) {
	return s.Students.GetStudentsBySubjectName(subjectName)
}

func (s *Store) SubjectsAttendedBy(pesel string) ([]entities.Subject, error) {
	return s.Subjects.GetSubjectsAttendedBy(pesel)
}

func (s *Store) BooksByAuthor(fragment string) ([]entities.Book, error) {
	return s.Books.SearchBooksByAuthor(fragment)
}

func (s *Store) ClassroomsInBuilding(fragment string) ([]entities.Classroom, error) {
	return s.Classrooms.SearchClassroomsByLocation(fragment)
}

func (s *Store) GetAllStudents() ([]entities.Student, error) {
	return s.Students.GetAllStudents()
}

func (s *Store) GetAllSubjectsWithMembers() ([]entities.Subject, error) {
	return s.Subjects.GetAllSubjectsWithMembers()
}

func (s *Store) GetAllBooks() ([]entities.Book, error) {
	return s.Books.GetAllBooks()
}

func (s *Store) GetAllClassrooms() ([]entities.Classroom, error) {
	return s.Classrooms.GetAllClassrooms()
}
