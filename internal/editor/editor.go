package editor

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/university/internal/association"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/validation"
)

var (
	ErrSessionNotFound = errors.New("editor session not found")
	ErrUnknownRelation = errors.New("relation not managed by this editor")
	ErrUnknownKind     = errors.New("unknown record kind")
	ErrRecordNotFound  = errors.New("record no longer exists")
)

const (
	MessageSaved   = "Data Saved"
	MessageUpdated = "Data Updated"
)

// StudentStore loads and saves students with their subjects.
type StudentStore interface {
	GetStudentByID(id uint) (*entities.Student, error)
	GetAllStudents() ([]entities.Student, error)
	SaveStudent(student *entities.Student, subjects []entities.Subject) error
}

// SubjectStore loads and saves subjects with their students and books.
type SubjectStore interface {
	GetSubjectByID(id uint) (*entities.Subject, error)
	GetAllSubjects() ([]entities.Subject, error)
	SaveSubject(subject *entities.Subject, students []entities.Student, books []entities.Book) error
}

// BookStore loads and saves books.
type BookStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	GetAllBooks() ([]entities.Book, error)
	SaveBook(book *entities.Book) error
}

// ClassroomStore loads and saves classrooms.
type ClassroomStore interface {
	GetClassroomByID(id uint) (*entities.Classroom, error)
	SaveClassroom(classroom *entities.Classroom) error
}

// Stores groups the repositories the editors read from and write to.
type Stores struct {
	Students   StudentStore
	Subjects   SubjectStore
	Books      BookStore
	Classrooms ClassroomStore
}

// Observer is notified after every save attempt that reached validation.
type Observer interface {
	SaveCompleted(kind entities.Kind, id uint, label string, created bool, err error)
}

// SaveResult describes a successful save.
type SaveResult struct {
	Kind    entities.Kind `json:"kind"`
	ID      uint          `json:"id"`
	Created bool          `json:"created"`
	Message string        `json:"message"`
}

// Editor is the registry of open sessions. It is safe for concurrent use.
type Editor struct {
	stores    Stores
	validator *validation.Engine
	observers []Observer
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates an editor registry. A nil validator uses the default rules.
func New(stores Stores, validator *validation.Engine, observers ...Observer) *Editor {
	if validator == nil {
		validator = validation.NewEngine(nil)
	}
	return &Editor{
		stores:    stores,
		validator: validator,
		observers: observers,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

// Open starts a session for kind. An id of zero opens an add session with
// an empty record and no assigned members. Otherwise the record and its
// memberships are loaded; ok is false when the record does not exist.
func (e *Editor) Open(kind entities.Kind, id uint) (View, bool, error) {
	s, err := e.load(kind, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return View{}, false, nil
	}
	if err != nil {
		return View{}, false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s.id = uuid.NewString()
	s.touched = e.now()
	e.sessions[s.id] = s
	log.Printf("[EDITOR] Opened %s session %s (record %d)", kind.Singular(), s.id, id)
	return s.view(), true, nil
}

// View returns the current state of a session.
func (e *Editor) View(sessionID string) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.get(sessionID)
	if err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// Update lets mutate change the scalar fields of the working copy. The
// record passed to mutate is a pointer to the session's entity. Identity
// and memberships are restored after mutate returns.
func (e *Editor) Update(sessionID string, mutate func(record any) error) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.get(sessionID)
	if err != nil {
		return View{}, err
	}
	if err := s.update(mutate); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// Assign adds the available member with memberID to relation. Unknown
// members and repeated assignments are ignored.
func (e *Editor) Assign(sessionID, relation string, memberID uint) (View, error) {
	return e.toggle(sessionID, relation, memberID, true)
}

// Unassign removes memberID from relation if it is assigned.
func (e *Editor) Unassign(sessionID, relation string, memberID uint) (View, error) {
	return e.toggle(sessionID, relation, memberID, false)
}

func (e *Editor) toggle(sessionID, relation string, memberID uint, assign bool) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.get(sessionID)
	if err != nil {
		return View{}, err
	}
	if err := s.toggle(relation, memberID, assign); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// Save validates the working copy and writes it with its memberships. A
// validation failure returns an error matching validation.ErrIncomplete
// and nothing is written. When the edited record was deleted after the
// session opened, nothing is written, observers are not notified, the
// session is closed and the error matches ErrRecordNotFound.
func (e *Editor) Save(sessionID string) (SaveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.get(sessionID)
	if err != nil {
		return SaveResult{}, err
	}

	if err := e.validator.Check(s.record()); err != nil {
		var incomplete *validation.IncompleteError
		if errors.As(err, &incomplete) {
			log.Printf("[EDITOR] Session %s: %s failed validation (%s)", s.id, s.kind.Singular(), incomplete.Reason)
		}
		return SaveResult{}, err
	}

	created := !s.editing
	err = s.save(e.stores)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		delete(e.sessions, s.id)
		log.Printf("[EDITOR] Session %s: %s %d no longer exists, session closed", s.id, s.kind.Singular(), s.recordID())
		return SaveResult{}, fmt.Errorf("save %s %d: %w", s.kind.Singular(), s.recordID(), ErrRecordNotFound)
	}
	for _, o := range e.observers {
		o.SaveCompleted(s.kind, s.recordID(), s.label(), created, err)
	}
	if err != nil {
		return SaveResult{}, fmt.Errorf("save %s: %w", s.kind.Singular(), err)
	}

	s.editing = true
	message := MessageUpdated
	if created {
		message = MessageSaved
	}
	return SaveResult{Kind: s.kind, ID: s.recordID(), Created: created, Message: message}, nil
}

// Close discards a session.
func (e *Editor) Close(sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.get(sessionID); err != nil {
		return err
	}
	delete(e.sessions, sessionID)
	return nil
}

// Len returns the number of open sessions.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Sweep closes sessions that have not been used for longer than idle and
// returns how many were closed.
func (e *Editor) Sweep(idle time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-idle)
	closed := 0
	for id, s := range e.sessions {
		if s.touched.Before(cutoff) {
			delete(e.sessions, id)
			closed++
		}
	}
	return closed
}

func (e *Editor) get(sessionID string) (*session, error) {
	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touched = e.now()
	return s, nil
}

func (e *Editor) load(kind entities.Kind, id uint) (*session, error) {
	s := &session{kind: kind, editing: id != 0}

	switch kind {
	case entities.KindStudent:
		subjects, err := e.stores.Subjects.GetAllSubjects()
		if err != nil {
			return nil, fmt.Errorf("load subjects: %w", err)
		}
		student := &entities.Student{}
		if id != 0 {
			if student, err = e.stores.Students.GetStudentByID(id); err != nil {
				return nil, err
			}
		}
		s.student = student
		s.subjects = association.New(subjectKey, subjects, student.Subjects)
		s.student.Subjects = nil

	case entities.KindSubject:
		students, err := e.stores.Students.GetAllStudents()
		if err != nil {
			return nil, fmt.Errorf("load students: %w", err)
		}
		books, err := e.stores.Books.GetAllBooks()
		if err != nil {
			return nil, fmt.Errorf("load books: %w", err)
		}
		subject := &entities.Subject{}
		if id != 0 {
			if subject, err = e.stores.Subjects.GetSubjectByID(id); err != nil {
				return nil, err
			}
		}
		s.subject = subject
		s.students = association.New(studentKey, students, subject.Students)
		s.books = association.New(bookKey, books, subject.Books)
		s.subject.Students, s.subject.Books = nil, nil

	case entities.KindBook:
		book := &entities.Book{}
		if id != 0 {
			var err error
			if book, err = e.stores.Books.GetBookByID(id); err != nil {
				return nil, err
			}
		}
		book.Subjects = nil
		s.book = book

	case entities.KindClassroom:
		classroom := &entities.Classroom{}
		if id != 0 {
			var err error
			if classroom, err = e.stores.Classrooms.GetClassroomByID(id); err != nil {
				return nil, err
			}
		}
		s.classroom = classroom

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return s, nil
}

func subjectKey(s entities.Subject) uint { return s.ID }
func studentKey(s entities.Student) uint { return s.ID }
func bookKey(b entities.Book) uint       { return b.ID }
