package validation

import (
	"fmt"

	"github.com/mrlokans/university/internal/entities"
)

// Fields checked for each record kind, in evaluation order.
var (
	StudentFields = []Field{
		FieldName, FieldLastName, FieldPESEL, FieldBirthDate, FieldGender,
		FieldPlaceOfBirth, FieldPlaceOfResidence, FieldAddressLine1,
		FieldAddressLine2, FieldPostalCode,
	}
	SubjectFields = []Field{FieldName, FieldSemester, FieldLecturer}
	BookFields    = []Field{
		FieldTitle, FieldAuthor, FieldPublisher, FieldPublicationDate,
		FieldISBN, FieldGenre, FieldDescription, FieldLanguage, FieldPageCount,
	}
	ClassroomFields = []Field{FieldLocation, FieldCapacity, FieldAvailableSeats, FieldDescription}
)

func fieldsOf(record any) ([]Field, map[Field]any, error) {
	switch r := record.(type) {
	case entities.Student:
		return fieldsOf(&r)
	case entities.Subject:
		return fieldsOf(&r)
	case entities.Book:
		return fieldsOf(&r)
	case entities.Classroom:
		return fieldsOf(&r)
	case *entities.Student:
		if r == nil {
			break
		}
		return StudentFields, map[Field]any{
			FieldName:             r.Name,
			FieldLastName:         r.LastName,
			FieldPESEL:            r.PESEL,
			FieldBirthDate:        r.BirthDate,
			FieldGender:           r.Gender,
			FieldPlaceOfBirth:     r.PlaceOfBirth,
			FieldPlaceOfResidence: r.PlaceOfResidence,
			FieldAddressLine1:     r.AddressLine1,
			FieldAddressLine2:     r.AddressLine2,
			FieldPostalCode:       r.PostalCode,
		}, nil
	case *entities.Subject:
		if r == nil {
			break
		}
		return SubjectFields, map[Field]any{
			FieldName:     r.Name,
			FieldSemester: r.Semester,
			FieldLecturer: r.Lecturer,
		}, nil
	case *entities.Book:
		if r == nil {
			break
		}
		return BookFields, map[Field]any{
			FieldTitle:           r.Title,
			FieldAuthor:          r.Author,
			FieldPublisher:       r.Publisher,
			FieldPublicationDate: r.PublicationDate,
			FieldISBN:            r.ISBN,
			FieldGenre:           r.Genre,
			FieldDescription:     r.Description,
			FieldLanguage:        r.Language,
			FieldPageCount:       r.PageCount,
		}, nil
	case *entities.Classroom:
		if r == nil {
			break
		}
		return ClassroomFields, map[Field]any{
			FieldLocation:       r.Location,
			FieldCapacity:       r.Capacity,
			FieldAvailableSeats: r.AvailableSeats,
			FieldDescription:    r.Description,
		}, nil
	}
	return nil, nil, fmt.Errorf("validation: unsupported record type %T", record)
}
