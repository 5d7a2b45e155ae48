package search

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/university/internal/entities"
)

// Store is the record store consumed by the dispatcher.
type Store interface {
	FindByID(kind entities.Kind, id uint) (any, error)
	Delete(kind entities.Kind, id uint) error
	StudentsAttending(subjectName string) ([]entities.Student, error)
	SubjectsAttendedBy(pesel string) ([]entities.Subject, error)
	BooksByAuthor(fragment string) ([]entities.Book, error)
	ClassroomsInBuilding(fragment string) ([]entities.Classroom, error)
}

// Confirmer decides whether a delete may proceed.
type Confirmer interface {
	Confirm(label string) bool
}

// ConfirmFunc adapts a function to Confirmer. A nil ConfirmFunc declines.
type ConfirmFunc func(label string) bool

// Confirm calls f, declining when f is nil.
func (f ConfirmFunc) Confirm(label string) bool {
	return f != nil && f(label)
}

// Observer is notified after searches and delete attempts.
type Observer interface {
	SearchCompleted(kind entities.Kind, matches int)
	DeleteCompleted(kind entities.Kind, id uint, label string, outcome Outcome, err error)
}

// Navigation asks the shell to open the editor for Kind with ID.
type Navigation struct {
	Kind entities.Kind `json:"kind"`
	ID   uint          `json:"id"`
}

// Outcome reports what a delete request did.
type Outcome int

const (
	// OutcomeIgnored means nothing was attempted: no kind was selected or
	// the row no longer exists.
	OutcomeIgnored Outcome = iota
	OutcomeDeclined
	OutcomeDeleted
)

// String returns the outcome name used as a metrics label.
func (o Outcome) String() string {
	switch o {
	case OutcomeDeclined:
		return "declined"
	case OutcomeDeleted:
		return "deleted"
	}
	return "ignored"
}

// Results holds the four result collections. At most one is non-empty.
type Results struct {
	Students   []entities.Student   `json:"students"`
	Subjects   []entities.Subject   `json:"subjects"`
	Books      []entities.Book      `json:"books"`
	Classrooms []entities.Classroom `json:"classrooms"`
}

// Len returns the size of the collection for kind.
func (r Results) Len(kind entities.Kind) int {
	switch kind {
	case entities.KindStudent:
		return len(r.Students)
	case entities.KindSubject:
		return len(r.Subjects)
	case entities.KindBook:
		return len(r.Books)
	case entities.KindClassroom:
		return len(r.Classrooms)
	}
	return 0
}

// State is the part of a dispatcher that survives between requests.
type State struct {
	Kind      entities.Kind `json:"kind"`
	Condition string        `json:"condition"`
	Ran       bool          `json:"ran"`
}

// Label returns the condition prompt shown for kind.
func Label(kind entities.Kind) string {
	switch kind {
	case entities.KindStudent:
		return "who attends"
	case entities.KindSubject:
		return "attended by Student with PESEL"
	case entities.KindBook:
		return "written by Author"
	case entities.KindClassroom:
		return "located in Building"
	}
	return ""
}

// Dispatcher runs one of four traversals for the selected kind and keeps
// the single active result collection. It is not safe for concurrent use.
type Dispatcher struct {
	store     Store
	confirmer Confirmer
	observers []Observer

	kind      entities.Kind
	condition string
	ran       bool
	results   Results
}

// NewDispatcher creates a dispatcher with no kind selected.
func NewDispatcher(store Store, confirmer Confirmer, observers ...Observer) *Dispatcher {
	return &Dispatcher{
		store:     store,
		confirmer: confirmer,
		observers: observers,
	}
}

// Select makes kind the active query shape, clears the condition and every
// result collection, and returns the prompt for the condition. An unknown
// kind deselects.
func (d *Dispatcher) Select(kind entities.Kind) string {
	if Label(kind) == "" {
		kind = entities.KindNone
	}
	d.kind = kind
	d.condition = ""
	d.ran = false
	d.results = Results{}
	return Label(kind)
}

// Kind returns the selected kind, or entities.KindNone.
func (d *Dispatcher) Kind() entities.Kind {
	return d.kind
}

// Prompt returns the condition prompt for the selected kind.
func (d *Dispatcher) Prompt() string {
	return Label(d.kind)
}

// SetCondition stores the condition without running a search.
func (d *Dispatcher) SetCondition(condition string) {
	d.condition = condition
}

// Condition returns the current condition text.
func (d *Dispatcher) Condition() string {
	return d.condition
}

// Results returns the current result collections.
func (d *Dispatcher) Results() Results {
	return d.results
}

// Run executes the traversal for the selected kind with the current
// condition. Without a selected kind it does nothing. On a store error the
// previous results are kept.
func (d *Dispatcher) Run() error {
	if d.kind == entities.KindNone {
		return nil
	}

	var next Results
	var err error
	switch d.kind {
	case entities.KindStudent:
		next.Students, err = d.store.StudentsAttending(d.condition)
	case entities.KindSubject:
		next.Subjects, err = d.store.SubjectsAttendedBy(d.condition)
	case entities.KindBook:
		next.Books, err = d.store.BooksByAuthor(d.condition)
	case entities.KindClassroom:
		next.Classrooms, err = d.store.ClassroomsInBuilding(d.condition)
	}
	if err != nil {
		return fmt.Errorf("search %s: %w", d.kind, err)
	}

	d.results = next
	d.ran = true
	for _, o := range d.observers {
		o.SearchCompleted(d.kind, next.Len(d.kind))
	}
	return nil
}

// Search sets the condition and runs the traversal.
func (d *Dispatcher) Search(condition string) error {
	d.SetCondition(condition)
	return d.Run()
}

// State captures the selected kind and condition.
func (d *Dispatcher) State() State {
	return State{Kind: d.kind, Condition: d.condition, Ran: d.ran}
}

// Restore reselects the kind of s and, when s had been run, runs the same
// search again so the results reflect the store's current contents.
func (d *Dispatcher) Restore(s State) error {
	d.Select(s.Kind)
	d.condition = s.Condition
	if !s.Ran {
		return nil
	}
	return d.Run()
}

// Edit forwards an edit request for row id of the active kind. ok is false
// when no kind is selected.
func (d *Dispatcher) Edit(id uint) (Navigation, bool) {
	if d.kind == entities.KindNone {
		return Navigation{}, false
	}
	return Navigation{Kind: d.kind, ID: id}, true
}

// DeleteLabel resolves the confirmation label for row id of the active
// kind. ok is false when there is no such row.
func (d *Dispatcher) DeleteLabel(id uint) (string, bool, error) {
	if d.kind == entities.KindNone {
		return "", false, nil
	}
	record, err := d.store.FindByID(d.kind, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s %d: %w", d.kind.Singular(), id, err)
	}
	return RecordLabel(record), true, nil
}

// Delete asks the Confirmer and, on an affirmative answer, removes row id
// of the active kind. A missing row is ignored. A successful delete also
// drops the row from the active collection.
func (d *Dispatcher) Delete(id uint) (Outcome, error) {
	kind := d.kind
	label, ok, err := d.DeleteLabel(id)
	if err != nil {
		d.notifyDelete(kind, id, label, OutcomeIgnored, err)
		return OutcomeIgnored, err
	}
	if !ok {
		return OutcomeIgnored, nil
	}

	if d.confirmer == nil || !d.confirmer.Confirm(label) {
		d.notifyDelete(kind, id, label, OutcomeDeclined, nil)
		return OutcomeDeclined, nil
	}

	err = d.store.Delete(kind, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OutcomeIgnored, nil
	}
	if err != nil {
		err = fmt.Errorf("delete %s %d: %w", kind.Singular(), id, err)
		d.notifyDelete(kind, id, label, OutcomeIgnored, err)
		return OutcomeIgnored, err
	}

	d.drop(id)
	d.notifyDelete(kind, id, label, OutcomeDeleted, nil)
	return OutcomeDeleted, nil
}

func (d *Dispatcher) notifyDelete(kind entities.Kind, id uint, label string, outcome Outcome, err error) {
	for _, o := range d.observers {
		o.DeleteCompleted(kind, id, label, outcome, err)
	}
}

func (d *Dispatcher) drop(id uint) {
	switch d.kind {
	case entities.KindStudent:
		d.results.Students = without(d.results.Students, id, func(s entities.Student) uint { return s.ID })
	case entities.KindSubject:
		d.results.Subjects = without(d.results.Subjects, id, func(s entities.Subject) uint { return s.ID })
	case entities.KindBook:
		d.results.Books = without(d.results.Books, id, func(b entities.Book) uint { return b.ID })
	case entities.KindClassroom:
		d.results.Classrooms = without(d.results.Classrooms, id, func(c entities.Classroom) uint { return c.ID })
	}
}

func without[T any](rows []T, id uint, key func(T) uint) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if key(r) != id {
			out = append(out, r)
		}
	}
	return out
}

// RecordLabel returns the human-readable name of a record: a student's full
// name, a subject's name, a book's title or a classroom's location.
func RecordLabel(record any) string {
	switch r := record.(type) {
	case *entities.Student:
		return r.FullName()
	case entities.Student:
		return r.FullName()
	case *entities.Subject:
		return r.Name
	case entities.Subject:
		return r.Name
	case *entities.Book:
		return r.Title
	case entities.Book:
		return r.Title
	case *entities.Classroom:
		return r.Location
	case entities.Classroom:
		return r.Location
	}
	return ""
}
