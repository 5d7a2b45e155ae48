// Package validation evaluates per-field rules on records before they are
// persisted.
//
// Rules are keyed by Field rather than by field name. Engine.Validate returns
// the specific reason for one field; Engine.Check walks every field of a
// record in order and stops at the first violation, reporting only
// ErrIncomplete to the caller.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/mrlokans/university/internal/pesel"
)

// ErrIncomplete is the single signal surfaced when a record is not ready to
// be saved.
var ErrIncomplete = errors.New("record is incomplete")

// MessageIncomplete is the message shown to users for ErrIncomplete.
const MessageIncomplete = "Please complete all required fields"

// Rule evaluates one field value and returns a violation reason, or "" when
// the value is valid.
type Rule func(value any) string

// PESELValidator checks the format and checksum of a PESEL number.
type PESELValidator func(value string) bool

// FieldError describes a single failed rule.
type FieldError struct {
	Field  Field
	Reason string
}

func (e *FieldError) Error() string {
	return e.Reason
}

// IncompleteError is returned by Check. It matches ErrIncomplete and keeps
// the first failing field for logging.
type IncompleteError struct {
	FieldError
}

func (e *IncompleteError) Error() string {
	return MessageIncomplete
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}

var postalCodePattern = regexp.MustCompile(`^\d{2}-\d{3}$`)

// Engine holds the rule table.
type Engine struct {
	rules map[Field]Rule
}

// NewEngine builds an engine whose PESEL rule delegates to isValidPESEL.
// A nil validator falls back to pesel.Valid.
func NewEngine(isValidPESEL PESELValidator) *Engine {
	if isValidPESEL == nil {
		isValidPESEL = pesel.Valid
	}

	rules := map[Field]Rule{
		FieldPESEL: func(value any) string {
			s, _ := value.(string)
			if s == "" {
				return "PESEL is required"
			}
			if !isValidPESEL(s) {
				return "PESEL is invalid"
			}
			return ""
		},
		FieldGender: func(value any) string {
			s, _ := value.(string)
			if s == "" {
				return "Gender is required"
			}
			if s != "Male" && s != "Female" {
				return "Gender must be 'Male' or 'Female'"
			}
			return ""
		},
		FieldPostalCode: func(value any) string {
			s, _ := value.(string)
			if s == "" {
				return "Postal Code is required"
			}
			if !postalCodePattern.MatchString(s) {
				return "Postal Code is invalid"
			}
			return ""
		},
		FieldPageCount: positive(FieldPageCount),
		FieldCapacity:  positive(FieldCapacity),
		FieldAvailableSeats: func(value any) string {
			n, _ := value.(int)
			if n < 0 {
				return "Available Seats cannot be negative"
			}
			return ""
		},
		FieldBirthDate:       requiredDate(FieldBirthDate),
		FieldPublicationDate: requiredDate(FieldPublicationDate),
	}

	for _, f := range []Field{
		FieldName, FieldLastName, FieldTitle, FieldAuthor, FieldLocation,
		FieldLecturer, FieldSemester, FieldGenre, FieldDescription,
		FieldLanguage, FieldISBN, FieldPublisher, FieldPlaceOfBirth,
		FieldPlaceOfResidence, FieldAddressLine1, FieldAddressLine2,
	} {
		rules[f] = requiredString(f)
	}

	return &Engine{rules: rules}
}

// Validate evaluates the rule registered for field. Fields without a rule
// are always valid.
func (e *Engine) Validate(field Field, value any) error {
	rule, ok := e.rules[field]
	if !ok {
		return nil
	}
	if reason := rule(value); reason != "" {
		return &FieldError{Field: field, Reason: reason}
	}
	return nil
}

// Check reports whether record is save-ready. It accepts a pointer or value
// of entities.Student, Subject, Book or Classroom.
func (e *Engine) Check(record any) error {
	fields, values, err := fieldsOf(record)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := e.Validate(f, values[f]); err != nil {
			var fe *FieldError
			errors.As(err, &fe)
			return &IncompleteError{FieldError: *fe}
		}
	}
	return nil
}

func requiredString(field Field) Rule {
	reason := fmt.Sprintf("%s is required", field)
	return func(value any) string {
		if s, _ := value.(string); s == "" {
			return reason
		}
		return ""
	}
}

func requiredDate(field Field) Rule {
	reason := fmt.Sprintf("%s is required", field)
	return func(value any) string {
		switch v := value.(type) {
		case *time.Time:
			if v == nil || v.IsZero() {
				return reason
			}
		case time.Time:
			if v.IsZero() {
				return reason
			}
		default:
			return reason
		}
		return ""
	}
}

func positive(field Field) Rule {
	reason := fmt.Sprintf("%s must be greater than 0", field)
	return func(value any) string {
		if n, _ := value.(int); n <= 0 {
			return reason
		}
		return ""
	}
}
