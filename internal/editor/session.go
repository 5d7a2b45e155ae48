package editor

import (
	"fmt"
	"time"

	"github.com/mrlokans/university/internal/association"
	"github.com/mrlokans/university/internal/entities"
)

// Relations managed by the editors.
const (
	RelationSubjects = "subjects"
	RelationStudents = "students"
	RelationBooks    = "books"
)

// Member is one entry of a relation list.
type Member struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// RelationView shows a relation as the editor presents it: every candidate,
// the current selection, and the selection projected onto the candidates.
type RelationView struct {
	Available []Member      `json:"available"`
	Assigned  []Member      `json:"assigned"`
	Selected  map[uint]bool `json:"selected"`
	Added     int           `json:"added"`
	Removed   int           `json:"removed"`
}

// View is a snapshot of a session.
type View struct {
	ID        string                  `json:"id"`
	Kind      entities.Kind           `json:"kind"`
	Editing   bool                    `json:"editing"`
	Record    any                     `json:"record"`
	Relations map[string]RelationView `json:"relations,omitempty"`
}

type session struct {
	id      string
	kind    entities.Kind
	editing bool
	touched time.Time

	student   *entities.Student
	subject   *entities.Subject
	book      *entities.Book
	classroom *entities.Classroom

	subjects *association.Synchronizer[entities.Subject]
	students *association.Synchronizer[entities.Student]
	books    *association.Synchronizer[entities.Book]
}

func (s *session) record() any {
	switch s.kind {
	case entities.KindStudent:
		return s.student
	case entities.KindSubject:
		return s.subject
	case entities.KindBook:
		return s.book
	case entities.KindClassroom:
		return s.classroom
	}
	return nil
}

func (s *session) recordID() uint {
	switch s.kind {
	case entities.KindStudent:
		return s.student.ID
	case entities.KindSubject:
		return s.subject.ID
	case entities.KindBook:
		return s.book.ID
	case entities.KindClassroom:
		return s.classroom.ID
	}
	return 0
}

func (s *session) label() string {
	switch s.kind {
	case entities.KindStudent:
		return s.student.FullName()
	case entities.KindSubject:
		return s.subject.Name
	case entities.KindBook:
		return s.book.Title
	case entities.KindClassroom:
		return s.classroom.Location
	}
	return ""
}

func (s *session) update(mutate func(record any) error) error {
	switch s.kind {
	case entities.KindStudent:
		working := *s.student
		if err := mutate(&working); err != nil {
			return err
		}
		working.ID, working.CreatedAt, working.Subjects = s.student.ID, s.student.CreatedAt, nil
		*s.student = working
	case entities.KindSubject:
		working := *s.subject
		if err := mutate(&working); err != nil {
			return err
		}
		working.ID, working.CreatedAt = s.subject.ID, s.subject.CreatedAt
		working.Students, working.Books = nil, nil
		*s.subject = working
	case entities.KindBook:
		working := *s.book
		if err := mutate(&working); err != nil {
			return err
		}
		working.ID, working.CreatedAt, working.Subjects = s.book.ID, s.book.CreatedAt, nil
		*s.book = working
	case entities.KindClassroom:
		working := *s.classroom
		if err := mutate(&working); err != nil {
			return err
		}
		working.ID, working.CreatedAt = s.classroom.ID, s.classroom.CreatedAt
		*s.classroom = working
	}
	return nil
}

func (s *session) toggle(relation string, memberID uint, assign bool) error {
	apply := func(add, remove func(uint) bool) {
		if assign {
			add(memberID)
		} else {
			remove(memberID)
		}
	}

	switch {
	case s.kind == entities.KindStudent && relation == RelationSubjects:
		apply(s.subjects.AddByID, s.subjects.RemoveByID)
	case s.kind == entities.KindSubject && relation == RelationStudents:
		apply(s.students.AddByID, s.students.RemoveByID)
	case s.kind == entities.KindSubject && relation == RelationBooks:
		apply(s.books.AddByID, s.books.RemoveByID)
	default:
		return fmt.Errorf("%w: %s editor has no %q", ErrUnknownRelation, s.kind.Singular(), relation)
	}
	return nil
}

// save writes a copy of the working record so that a failed transaction
// cannot leave a generated ID behind on the session.
func (s *session) save(stores Stores) error {
	switch s.kind {
	case entities.KindStudent:
		return s.subjects.Commit(func(subjects []entities.Subject) error {
			working := *s.student
			if err := stores.Students.SaveStudent(&working, subjects); err != nil {
				return err
			}
			working.Subjects = nil
			*s.student = working
			return nil
		})
	case entities.KindSubject:
		return s.students.Commit(func(students []entities.Student) error {
			return s.books.Commit(func(books []entities.Book) error {
				working := *s.subject
				if err := stores.Subjects.SaveSubject(&working, students, books); err != nil {
					return err
				}
				working.Students, working.Books = nil, nil
				*s.subject = working
				return nil
			})
		})
	case entities.KindBook:
		working := *s.book
		if err := stores.Books.SaveBook(&working); err != nil {
			return err
		}
		*s.book = working
	case entities.KindClassroom:
		working := *s.classroom
		if err := stores.Classrooms.SaveClassroom(&working); err != nil {
			return err
		}
		*s.classroom = working
	}
	return nil
}

func (s *session) view() View {
	v := View{ID: s.id, Kind: s.kind, Editing: s.editing}

	switch s.kind {
	case entities.KindStudent:
		record := *s.student
		v.Record = record
		v.Relations = map[string]RelationView{
			RelationSubjects: relationView(s.subjects, func(m entities.Subject) Member {
				return Member{ID: m.ID, Label: m.Name}
			}),
		}
	case entities.KindSubject:
		record := *s.subject
		v.Record = record
		v.Relations = map[string]RelationView{
			RelationStudents: relationView(s.students, func(m entities.Student) Member {
				return Member{ID: m.ID, Label: m.FullName()}
			}),
			RelationBooks: relationView(s.books, func(m entities.Book) Member {
				return Member{ID: m.ID, Label: m.Title}
			}),
		}
	case entities.KindBook:
		v.Record = *s.book
	case entities.KindClassroom:
		v.Record = *s.classroom
	}
	return v
}

func relationView[M any](sync *association.Synchronizer[M], member func(M) Member) RelationView {
	members := func(ms []M) []Member {
		out := make([]Member, 0, len(ms))
		for _, m := range ms {
			out = append(out, member(m))
		}
		return out
	}
	added, removed := sync.Changes()
	return RelationView{
		Available: members(sync.Available()),
		Assigned:  members(sync.Assigned()),
		Selected:  sync.Selected(),
		Added:     len(added),
		Removed:   len(removed),
	}
}
