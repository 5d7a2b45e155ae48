package validation

// Field identifies a validated attribute of a record.
type Field int

const (
	FieldName Field = iota + 1
	FieldLastName
	FieldPESEL
	FieldBirthDate
	FieldGender
	FieldPlaceOfBirth
	FieldPlaceOfResidence
	FieldAddressLine1
	FieldAddressLine2
	FieldPostalCode
	FieldSemester
	FieldLecturer
	FieldTitle
	FieldAuthor
	FieldPublisher
	FieldPublicationDate
	FieldISBN
	FieldGenre
	FieldDescription
	FieldLanguage
	FieldPageCount
	FieldLocation
	FieldCapacity
	FieldAvailableSeats
)

var fieldLabels = map[Field]string{
	FieldName:             "Name",
	FieldLastName:         "Last Name",
	FieldPESEL:            "PESEL",
	FieldBirthDate:        "Birth Date",
	FieldGender:           "Gender",
	FieldPlaceOfBirth:     "Place of Birth",
	FieldPlaceOfResidence: "Place of Residence",
	FieldAddressLine1:     "Address Line 1",
	FieldAddressLine2:     "Address Line 2",
	FieldPostalCode:       "Postal Code",
	FieldSemester:         "Semester",
	FieldLecturer:         "Lecturer",
	FieldTitle:            "Title",
	FieldAuthor:           "Author",
	FieldPublisher:        "Publisher",
	FieldPublicationDate:  "Publication Date",
	FieldISBN:             "ISBN",
	FieldGenre:            "Genre",
	FieldDescription:      "Description",
	FieldLanguage:         "Language",
	FieldPageCount:        "Page Count",
	FieldLocation:         "Location",
	FieldCapacity:         "Capacity",
	FieldAvailableSeats:   "Available Seats",
}

// String returns the human-readable label used in violation reasons.
func (f Field) String() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return "Unknown"
}
