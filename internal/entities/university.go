package entities

import (
	"time"
)

// Kind identifies one of the four record kinds managed by the application.
type Kind string

const (
	KindNone      Kind = ""
	KindStudent   Kind = "students"
	KindSubject   Kind = "subjects"
	KindBook      Kind = "books"
	KindClassroom Kind = "classrooms"
)

// Kinds lists every record kind in display order.
var Kinds = []Kind{KindStudent, KindSubject, KindBook, KindClassroom}

// ParseKind accepts the plural form used in URLs and CLI flags ("students")
// as well as the singular ("student").
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "students", "student", "Students":
		return KindStudent, true
	case "subjects", "subject", "Subjects":
		return KindSubject, true
	case "books", "book", "Books":
		return KindBook, true
	case "classrooms", "classroom", "Classrooms":
		return KindClassroom, true
	}
	return KindNone, false
}

// Singular returns the singular entity name, used in audit records.
func (k Kind) Singular() string {
	switch k {
	case KindStudent:
		return "student"
	case KindSubject:
		return "subject"
	case KindBook:
		return "book"
	case KindClassroom:
		return "classroom"
	}
	return ""
}

type Student struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"size:100" json:"name"`
	LastName         string     `gorm:"size:100" json:"last_name"`
	PESEL            string     `gorm:"column:pesel;uniqueIndex;size:11" json:"pesel"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	Gender           string     `gorm:"size:10" json:"gender"`
	PlaceOfBirth     string     `gorm:"size:100" json:"place_of_birth"`
	PlaceOfResidence string     `gorm:"size:100" json:"place_of_residence"`
	AddressLine1     string     `gorm:"size:200" json:"address_line1"`
	AddressLine2     string     `gorm:"size:200" json:"address_line2"`
	PostalCode       string     `gorm:"size:6" json:"postal_code"`
	Subjects         []Subject  `gorm:"many2many:student_subjects;" json:"subjects,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FullName is the label shown when confirming a student's deletion.
func (s Student) FullName() string {
	return s.Name + " " + s.LastName
}

type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:200" json:"name"`
	Semester  string    `gorm:"size:50" json:"semester"`
	Lecturer  string    `gorm:"size:200" json:"lecturer"`
	Students  []Student `gorm:"many2many:student_subjects;" json:"students,omitempty"`
	Books     []Book    `gorm:"many2many:subject_books;" json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"index;size:512" json:"title"`
	Author          string     `gorm:"index;size:256" json:"author"`
	Publisher       string     `gorm:"size:256" json:"publisher"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	ISBN            string     `gorm:"column:isbn;size:20" json:"isbn"`
	Genre           string     `gorm:"size:100" json:"genre"`
	Description     string     `gorm:"type:text" json:"description"`
	Language        string     `gorm:"size:50" json:"language"`
	PageCount       int        `json:"page_count"`
	Subjects        []Subject  `gorm:"many2many:subject_books;" json:"subjects,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Classroom struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Location       string    `gorm:"index;size:200" json:"location"`
	Capacity       int       `json:"capacity"`
	AvailableSeats int       `json:"available_seats"`
	Projector      bool      `json:"projector"`
	Whiteboard     bool      `json:"whiteboard"`
	Microphone     bool      `json:"microphone"`
	Description    string    `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
