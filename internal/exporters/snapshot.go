package exporters

import (
	"fmt"
	"time"

	"github.com/mrlokans/university/internal/entities"
)

const dateLayout = "2006-01-02"

// Snapshot is the portable form of every record and membership.
type Snapshot struct {
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Students    []StudentRecord   `json:"students" yaml:"students"`
	Subjects    []SubjectRecord   `json:"subjects" yaml:"subjects"`
	Books       []BookRecord      `json:"books" yaml:"books"`
	Classrooms  []ClassroomRecord `json:"classrooms" yaml:"classrooms"`
}

type StudentRecord struct {
	ID               uint   `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	LastName         string `json:"last_name" yaml:"last_name"`
	PESEL            string `json:"pesel" yaml:"pesel"`
	BirthDate        string `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Gender           string `json:"gender" yaml:"gender"`
	PlaceOfBirth     string `json:"place_of_birth" yaml:"place_of_birth"`
	PlaceOfResidence string `json:"place_of_residence" yaml:"place_of_residence"`
	AddressLine1     string `json:"address_line1" yaml:"address_line1"`
	AddressLine2     string `json:"address_line2" yaml:"address_line2"`
	PostalCode       string `json:"postal_code" yaml:"postal_code"`
}

type SubjectRecord struct {
	ID         uint   `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Semester   string `json:"semester" yaml:"semester"`
	Lecturer   string `json:"lecturer" yaml:"lecturer"`
	StudentIDs []uint `json:"student_ids" yaml:"student_ids"`
	BookIDs    []uint `json:"book_ids" yaml:"book_ids"`
}

type BookRecord struct {
	ID              uint   `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Author          string `json:"author" yaml:"author"`
	Publisher       string `json:"publisher" yaml:"publisher"`
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	ISBN            string `json:"isbn" yaml:"isbn"`
	Genre           string `json:"genre" yaml:"genre"`
	Description     string `json:"description" yaml:"description"`
	Language        string `json:"language" yaml:"language"`
	PageCount       int    `json:"page_count" yaml:"page_count"`
}

type ClassroomRecord struct {
	ID             uint   `json:"id" yaml:"id"`
	Location       string `json:"location" yaml:"location"`
	Capacity       int    `json:"capacity" yaml:"capacity"`
	AvailableSeats int    `json:"available_seats" yaml:"available_seats"`
	Projector      bool   `json:"projector" yaml:"projector"`
	Whiteboard     bool   `json:"whiteboard" yaml:"whiteboard"`
	Microphone     bool   `json:"microphone" yaml:"microphone"`
	Description    string `json:"description" yaml:"description"`
}

// SnapshotReader is the read side of the record store the exporter needs.
type SnapshotReader interface {
	GetAllStudents() ([]entities.Student, error)
	GetAllSubjectsWithMembers() ([]entities.Subject, error)
	GetAllBooks() ([]entities.Book, error)
	GetAllClassrooms() ([]entities.Classroom, error)
}

// BuildSnapshot reads every record. Collections are never nil so that
// encoders emit empty lists rather than null.
func BuildSnapshot(reader SnapshotReader, at time.Time) (*Snapshot, error) {
	students, err := reader.GetAllStudents()
	if err != nil {
		return nil, fmt.Errorf("failed to read students: %w", err)
	}
	subjects, err := reader.GetAllSubjectsWithMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to read subjects: %w", err)
	}
	books, err := reader.GetAllBooks()
	if err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	classrooms, err := reader.GetAllClassrooms()
	if err != nil {
		return nil, fmt.Errorf("failed to read classrooms: %w", err)
	}

	snap := &Snapshot{
		GeneratedAt: at.UTC(),
		Students:    make([]StudentRecord, 0, len(students)),
		Subjects:    make([]SubjectRecord, 0, len(subjects)),
		Books:       make([]BookRecord, 0, len(books)),
		Classrooms:  make([]ClassroomRecord, 0, len(classrooms)),
	}
	for _, s := range students {
		snap.Students = append(snap.Students, StudentRecord{
			ID:               s.ID,
			Name:             s.Name,
			LastName:         s.LastName,
			PESEL:            s.PESEL,
			BirthDate:        formatDate(s.BirthDate),
			Gender:           s.Gender,
			PlaceOfBirth:     s.PlaceOfBirth,
			PlaceOfResidence: s.PlaceOfResidence,
			AddressLine1:     s.AddressLine1,
			AddressLine2:     s.AddressLine2,
			PostalCode:       s.PostalCode,
		})
	}
	for _, s := range subjects {
		rec := SubjectRecord{
			ID:         s.ID,
			Name:       s.Name,
			Semester:   s.Semester,
			Lecturer:   s.Lecturer,
			StudentIDs: make([]uint, 0, len(s.Students)),
			BookIDs:    make([]uint, 0, len(s.Books)),
		}
		for _, st := range s.Students {
			rec.StudentIDs = append(rec.StudentIDs, st.ID)
		}
		for _, b := range s.Books {
			rec.BookIDs = append(rec.BookIDs, b.ID)
		}
		snap.Subjects = append(snap.Subjects, rec)
	}
	for _, b := range books {
		snap.Books = append(snap.Books, BookRecord{
			ID:              b.ID,
			Title:           b.Title,
			Author:          b.Author,
			Publisher:       b.Publisher,
			PublicationDate: formatDate(b.PublicationDate),
			ISBN:            b.ISBN,
			Genre:           b.Genre,
			Description:     b.Description,
			Language:        b.Language,
			PageCount:       b.PageCount,
		})
	}
	for _, c := range classrooms {
		snap.Classrooms = append(snap.Classrooms, ClassroomRecord{
			ID:             c.ID,
			Location:       c.Location,
			Capacity:       c.Capacity,
			AvailableSeats: c.AvailableSeats,
			Projector:      c.Projector,
			Whiteboard:     c.Whiteboard,
			Microphone:     c.Microphone,
			Description:    c.Description,
		})
	}
	return snap, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
